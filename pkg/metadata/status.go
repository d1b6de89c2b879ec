package metadata

import "fmt"

type Status string

const (
	StatusDeployable   Status = "deployable"
	StatusDeployed     Status = "deployed"
	StatusPending      Status = "pending"
	StatusUndeployable Status = "undeployable"
	StatusArchived     Status = "archived"
)

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusDeployable, StatusDeployed, StatusPending, StatusUndeployable, StatusArchived:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
