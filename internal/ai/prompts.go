package ai

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

// SQLGenerationPrompt 带三个示例的固定提示词
const SQLGenerationPrompt = `
You are an SQL expert. Convert the following natural language queries into SQL queries. Be precise and ensure proper SQL syntax. Assume a general database schema.

Examples:
1. "List all employees who earn more than 5000."
SQL: SELECT * FROM employees WHERE salary > 5000;

2. "Get the names of customers who have made purchases in the last 30 days."
SQL: SELECT name FROM customers WHERE purchase_date >= NOW() - INTERVAL '30 days';

3. "Find the total revenue for this month."
SQL: SELECT SUM(revenue) AS total_revenue FROM sales WHERE MONTH(sale_date) = MONTH(CURRENT_DATE);

Natural language query: {{.query}}
SQL:
`

// NewSQLPrompt 创建SQL生成提示词模板
func NewSQLPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(SQLGenerationPrompt, []string{"query"})
}

// FormatSQLPrompt 把用户查询代入提示词
func FormatSQLPrompt(tmpl prompts.PromptTemplate, query string) (string, error) {
	prompt, err := tmpl.Format(map[string]any{"query": query})
	if err != nil {
		return "", fmt.Errorf("format sql prompt: %w", err)
	}
	return prompt, nil
}
