package attendance

import "strings"

// Category は社員ごとの月次レビュー状態の表示区分です。
type Category string

const (
	CategoryApproved        Category = "APPROVED"
	CategoryNeedsReview     Category = "NEEDS_REVIEW"
	CategoryNeedsAssignment Category = "NEEDS_ASSIGNMENT"
	CategoryRejected        Category = "REJECTED"
	CategoryNoUpload        Category = "NO_UPLOAD"
)

// StatusMap は社員 ID から生のステータスコードへの対応です。
type StatusMap map[string]string

// Classify は statusMap から社員の表示区分を解決します。
// エントリが無い場合や未知のコードは CategoryNoUpload になります。
func Classify(statusMap StatusMap, employeeID string) Category {
	code, ok := statusMap[employeeID]
	if !ok {
		return CategoryNoUpload
	}
	switch Category(code) {
	case CategoryApproved, CategoryNeedsReview, CategoryNeedsAssignment, CategoryRejected:
		return Category(code)
	default:
		return CategoryNoUpload
	}
}

// ParseReviewStatus はレビュー結果として保存できるコードを解釈します。
// NO_UPLOAD は「記録なし」を意味するため保存対象になりません。
func ParseReviewStatus(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	switch c {
	case CategoryApproved, CategoryNeedsReview, CategoryNeedsAssignment, CategoryRejected:
		return c, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Style は区分ごとの表示設定です。
type Style struct {
	Background string
	Foreground string
	Label      string
}

var styles = map[Category]Style{
	CategoryApproved:        {Background: "#DCFCE7", Foreground: "#166534", Label: "Approved"},
	CategoryNeedsReview:     {Background: "#FEF9C3", Foreground: "#854D0E", Label: "Needs review"},
	CategoryNeedsAssignment: {Background: "#DBEAFE", Foreground: "#1E40AF", Label: "Needs assignment"},
	CategoryRejected:        {Background: "#FEE2E2", Foreground: "#991B1B", Label: "Rejected"},
	CategoryNoUpload:        {Background: "#F3F4F6", Foreground: "#374151", Label: "No upload"},
}

// StyleFor は区分に対応する表示設定を返します。未知の区分は NO_UPLOAD の設定です。
func StyleFor(c Category) Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[CategoryNoUpload]
}

// Categories は全区分を表示順で返します。
func Categories() []Category {
	return []Category{
		CategoryApproved,
		CategoryNeedsReview,
		CategoryNeedsAssignment,
		CategoryRejected,
		CategoryNoUpload,
	}
}
