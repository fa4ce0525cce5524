package parser

import (
	"fmt"
	"sort"
	"strings"

	recerr "github.com/balkashynov/record/internal/errors"
)

// taskLabels maps the accepted task keywords to the labels stored in the
// records table.
var taskLabels = map[string]string{
	"meeting":   "会議",
	"coding":    "コーディング",
	"interview": "面接",
	"report":    "資料作成",
	"analysis":  "分析・検討・調査",
	"moving":    "移動",
	"review":    "レビュー",
	"trip":      "出張",
}

// TaskLabel returns the display label for a task keyword. Keywords are matched
// case-insensitively after trimming. An unknown keyword yields a
// ValidationError wrapping ErrUnknownTask.
func TaskLabel(keyword string) (string, error) {
	label, ok := taskLabels[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return "", recerr.NewValidationError("task", keyword,
			fmt.Sprintf("must be one of %s", strings.Join(TaskKeywords(), ", ")),
			recerr.ErrUnknownTask)
	}
	return label, nil
}

// TaskKeywords lists the accepted keywords in alphabetical order.
func TaskKeywords() []string {
	keywords := make([]string, 0, len(taskLabels))
	for k := range taskLabels {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}
