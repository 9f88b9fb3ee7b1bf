package commandmeta

import "testing"

func TestCommandPathPolicies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path        string
		emitsStatus bool
		policy      OutputPolicy
	}{
		{path: "connectorctl apply", emitsStatus: true, policy: OutputPolicyStructured},
		{path: "connectorctl diff", emitsStatus: false, policy: OutputPolicyStructured},
		{path: "connectorctl check", emitsStatus: false, policy: OutputPolicyTextOnly},
		{path: "connectorctl context use", emitsStatus: true, policy: OutputPolicyStructured},
		{path: "connectorctl context list", emitsStatus: false, policy: OutputPolicyStructured},
		{path: " connectorctl version ", emitsStatus: false, policy: OutputPolicyStructured},
	}

	for _, testCase := range testCases {
		if got := EmitsExecutionStatusPath(testCase.path); got != testCase.emitsStatus {
			t.Fatalf("EmitsExecutionStatusPath(%q) = %t, want %t", testCase.path, got, testCase.emitsStatus)
		}
		if got := OutputPolicyForPath(testCase.path); got != testCase.policy {
			t.Fatalf("OutputPolicyForPath(%q) = %d, want %d", testCase.path, got, testCase.policy)
		}
	}
}
