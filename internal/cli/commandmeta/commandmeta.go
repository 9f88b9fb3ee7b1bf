package commandmeta

import "strings"

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
)

func EmitsExecutionStatusPath(path string) bool {
	switch strings.TrimSpace(path) {
	case "connectorctl apply",
		"connectorctl context use":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(path string) OutputPolicy {
	switch strings.TrimSpace(path) {
	case "connectorctl check":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}
