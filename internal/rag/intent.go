package rag

// Intent labels a coarse category of user problem. A knowledge
// document may declare at most one; a query may trigger several.
const (
	IntentLoginIssue  = "login_issue"
	IntentReport      = "report"
	IntentReportError = "report_error"
	IntentPerformance = "performance"
)

// intentTriggers maps each label to its trigger tokens. The sets are
// disjoint by construction.
var intentTriggers = map[string]map[string]struct{}{
	IntentLoginIssue:  {"login": {}, "đăng": {}, "nhập": {}},
	IntentReport:      {"báo": {}, "cáo": {}, "report": {}},
	IntentReportError: {"lỗi": {}, "sai": {}, "lệch": {}},
	IntentPerformance: {"chậm": {}, "lag": {}, "treo": {}},
}

// DetectIntents maps a filtered token sequence to the set of intent
// labels whose trigger sets it hits.
func DetectIntents(tokens []string) map[string]struct{} {
	intents := make(map[string]struct{})
	for _, token := range tokens {
		for label, triggers := range intentTriggers {
			if _, ok := triggers[token]; ok {
				intents[label] = struct{}{}
			}
		}
	}
	return intents
}
