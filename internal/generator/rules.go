// 规则表：自然语言模式到SQL模板的映射
// 按声明顺序匹配，越具体的模式越靠前

package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
)

// Rule 单条匹配规则
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Handler func(groups map[string]string) (string, error)
}

// rules 只读规则表，包初始化后不再修改
// 词与数字按Unicode字符类匹配
var rules = []Rule{
	{
		Name:    "salary_filter",
		Pattern: regexp.MustCompile(`(?i)list all (?P<table>[\p{L}\p{N}_]+)s who earn more than (?P<number>\p{Nd}+)`),
		Handler: handleGreaterThan,
	},
	{
		Name:    "select_all",
		Pattern: regexp.MustCompile(`(?i)list all (?P<table>[\p{L}\p{N}_]+)s`),
		Handler: handleSelectAll,
	},
	{
		Name:    "recent_purchases",
		Pattern: regexp.MustCompile(`(?i)get the names of (?P<table>[\p{L}\p{N}_]+)s who have made purchases in the last (?P<days>\p{Nd}+) days`),
		Handler: handleRecentPurchases,
	},
	{
		Name:    "monthly_total",
		Pattern: regexp.MustCompile(`(?i)find the total (?P<field>[\p{L}\p{N}_]+) for this month`),
		Handler: handleSumThisMonth,
	},
}

// Rules 返回规则表副本
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// namedGroups 提取命名捕获组
func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = match[i]
	}
	return groups
}

func requireGroup(groups map[string]string, name string) (string, error) {
	v, ok := groups[name]
	if !ok || v == "" {
		return "", fmt.Errorf("missing capture group %q", name)
	}
	return v, nil
}

func handleGreaterThan(groups map[string]string) (string, error) {
	table, err := requireGroup(groups, "table")
	if err != nil {
		return "", err
	}
	number, err := requireGroup(groups, "number")
	if err != nil {
		return "", err
	}

	// 员工表默认按薪资过滤
	if inflect.Singularize(strings.ToLower(table)) == "employee" {
		return fmt.Sprintf("SELECT * FROM employees WHERE salary > %s;", number), nil
	}
	return fmt.Sprintf("SELECT * FROM %ss WHERE value > %s;", table, number), nil
}

func handleSelectAll(groups map[string]string) (string, error) {
	table, err := requireGroup(groups, "table")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT * FROM %ss;", table), nil
}

func handleRecentPurchases(groups map[string]string) (string, error) {
	table, err := requireGroup(groups, "table")
	if err != nil {
		return "", err
	}
	days, err := requireGroup(groups, "days")
	if err != nil {
		return "", err
	}

	tableName := table
	if !strings.HasSuffix(table, "s") {
		tableName = table + "s"
	}
	return fmt.Sprintf("SELECT name FROM %s WHERE purchase_date >= NOW() - INTERVAL '%s days';", tableName, days), nil
}

func handleSumThisMonth(groups map[string]string) (string, error) {
	field, err := requireGroup(groups, "field")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT SUM(%s) AS total_%s FROM sales WHERE MONTH(sale_date) = MONTH(CURRENT_DATE);", field, field), nil
}
