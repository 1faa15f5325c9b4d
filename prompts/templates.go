package prompts

import (
	"fmt"
	"strings"
)

// Templates for the thin developer-tool endpoints. Each function maps
// structured arguments to a single prompt string.

func CodeReview(code, language, context string) string {
	contextLine := ""
	if context != "" {
		contextLine = fmt.Sprintf("Context: %s\n\n", context)
	}
	return fmt.Sprintf(`You are an expert code reviewer. Analyze the following %s code and provide:
1. Code quality assessment (rating 1-10)
2. Potential bugs or issues
3. Security vulnerabilities
4. Performance optimization suggestions
5. Best practices violations
6. Refactoring recommendations

%sCode:
%s

Provide detailed, actionable feedback in a structured format.`, language, contextLine, fence(code, language))
}

func DetectBugs(code, language, errorMessage string) string {
	errLine := ""
	if errorMessage != "" {
		errLine = fmt.Sprintf("Error Message: %s\n", errorMessage)
	}
	return fmt.Sprintf(`You are an expert debugger. Analyze this %s code for bugs and potential issues.

%sCode:
%s

Provide:
1. Identified bugs with line references
2. Root cause analysis
3. Step-by-step fix instructions
4. Corrected code snippet
5. Prevention tips`, language, errLine, fence(code, language))
}

func ExplainCode(code, language, level string) string {
	if level == "" {
		level = "intermediate"
	}
	return fmt.Sprintf(`Explain the following %s code for a %s level developer.

Code:
%s

Provide:
1. Overall purpose and functionality
2. Line-by-line explanation for complex parts
3. Key concepts used
4. Time and space complexity (if applicable)
5. Use cases and examples`, language, level, fence(code, language))
}

func GenerateTests(code, language, framework string) string {
	frameworkText := ""
	if framework != "" {
		frameworkText = "using " + framework + " "
	}
	return fmt.Sprintf(`Generate comprehensive unit tests %sfor this %s code.

Code:
%s

Include:
1. Test cases for normal scenarios
2. Edge cases
3. Error handling tests
4. Mock data setup (if needed)
5. Assertions and expected outcomes`, frameworkText, language, fence(code, language))
}

func RefactorCode(code, language string, goals []string) string {
	goalsText := "better readability, performance, and maintainability"
	if len(goals) > 0 {
		goalsText = strings.Join(goals, ", ")
	}
	return fmt.Sprintf(`Refactor the following %s code focusing on: %s

Original Code:
%s

Provide:
1. Refactored code
2. Explanation of changes made
3. Benefits of the refactoring
4. Any trade-offs`, language, goalsText, fence(code, language))
}

func SQLQuery(description, schema, dialect string) string {
	if dialect == "" {
		dialect = "PostgreSQL"
	}
	schemaText := ""
	if schema != "" {
		schemaText = fmt.Sprintf("Database Schema:\n%s\n\n", schema)
	}
	return fmt.Sprintf(`Generate a %s SQL query based on this description: %s

%sProvide:
1. The SQL query
2. Explanation of the query
3. Expected result format
4. Potential optimizations
5. Index suggestions (if applicable)`, dialect, description, schemaText)
}

func Regex(description string, examples []string) string {
	examplesText := ""
	if len(examples) > 0 {
		examplesText = fmt.Sprintf("\nExamples to match: %s", strings.Join(examples, ", "))
	}
	return fmt.Sprintf(`Generate a regular expression for: %s%s

Provide:
1. The regex pattern
2. Explanation of each part
3. Flags to use
4. Test cases demonstrating matches
5. Common pitfalls to avoid`, description, examplesText)
}

func Snippet(description, language, style string) string {
	if style == "" {
		style = "modern"
	}
	return fmt.Sprintf(`Generate a %s %s code snippet for: %s

Provide:
1. Clean, production-ready code
2. Comments explaining key parts
3. Usage example
4. Any dependencies needed`, style, language, description)
}

func CommitMessage(diff, style string) string {
	if style == "" {
		style = "conventional"
	}
	return fmt.Sprintf(`Generate a %s commit message for these changes:

%s

Follow %s commit style guidelines.`, style, diff, style)
}

func ExplainAlgorithm(name, language string, includeCode bool) string {
	if language == "" {
		language = "JavaScript"
	}
	codeText := ""
	if includeCode {
		codeText = fmt.Sprintf("\nInclude %s implementation.", language)
	}
	return fmt.Sprintf(`Explain the %s algorithm in detail.

Provide:
1. Concept and purpose
2. Step-by-step explanation
3. Time and space complexity
4. Advantages and disadvantages
5. Use cases
6. Visualization/diagram (text-based)%s`, name, codeText)
}

func Documentation(code, language, docStyle string) string {
	if docStyle == "" {
		docStyle = "JSDoc"
	}
	return fmt.Sprintf(`Generate comprehensive %s documentation for this %s code.

Code:
%s

Include:
1. Function/class descriptions
2. Parameter documentation
3. Return value documentation
4. Usage examples
5. Edge cases and error handling`, docStyle, language, fence(code, language))
}

func SuggestCode(partialCode, language, context string) string {
	contextLine := ""
	if context != "" {
		contextLine = fmt.Sprintf("Context: %s\n", context)
	}
	return fmt.Sprintf(`Complete or suggest improvements for this %s code.

%s
Partial Code:
%s

Provide intelligent code completion or suggestions.`, language, contextLine, fence(partialCode, language))
}

func APIDocumentation(endpoint, method, requestBody, responseBody string) string {
	requestText := ""
	if requestBody != "" {
		requestText = fmt.Sprintf("Request Body:\n%s\n", requestBody)
	}
	responseText := ""
	if responseBody != "" {
		responseText = fmt.Sprintf("Response Body:\n%s\n", responseBody)
	}
	return fmt.Sprintf(`Generate comprehensive API documentation for:

Endpoint: %s
Method: %s
%s%s
Provide:
1. Endpoint description
2. Request parameters
3. Request body schema
4. Response schema
5. Status codes
6. Example requests (curl and code)
7. Error responses`, endpoint, method, requestText, responseText)
}

func Architecture(projectDescription string, requirements, constraints []string) string {
	requirementsText := ""
	if len(requirements) > 0 {
		requirementsText = fmt.Sprintf("\nRequirements: %s", strings.Join(requirements, ", "))
	}
	constraintsText := ""
	if len(constraints) > 0 {
		constraintsText = fmt.Sprintf("\nConstraints: %s", strings.Join(constraints, ", "))
	}
	return fmt.Sprintf(`Suggest software architecture for:

Project: %s%s%s

Provide:
1. Recommended architecture pattern
2. Tech stack suggestions
3. System design diagram (in text/ASCII)
4. Database schema recommendations
5. Scalability considerations
6. Security best practices
7. Deployment strategy`, projectDescription, requirementsText, constraintsText)
}

func OptimizePerformance(code, language, performanceMetrics string) string {
	metricsText := ""
	if performanceMetrics != "" {
		metricsText = fmt.Sprintf("Current Performance Metrics:\n%s\n", performanceMetrics)
	}
	return fmt.Sprintf(`Analyze and optimize the performance of this %s code.

%s
Code:
%s

Provide:
1. Performance bottlenecks
2. Time complexity analysis
3. Space complexity analysis
4. Optimized version
5. Caching strategies
6. Algorithm improvements
7. Expected performance gains`, language, metricsText, fence(code, language))
}

func SecurityScan(code, language, framework string) string {
	frameworkText := ""
	if framework != "" {
		frameworkText = fmt.Sprintf(" (%s framework)", framework)
	}
	return fmt.Sprintf(`Perform a security audit on this %s code%s.

Code:
%s

Identify:
1. Security vulnerabilities (SQL injection, XSS, CSRF, etc.)
2. Authentication/Authorization issues
3. Data exposure risks
4. Insecure dependencies
5. Input validation issues
6. Secure coding recommendations
7. OWASP Top 10 compliance`, language, frameworkText, fence(code, language))
}

func ConvertCode(code, fromLanguage, toLanguage string) string {
	return fmt.Sprintf(`Convert the following code from %s to %s.

Original %s Code:
%s

Provide:
1. Converted %s code
2. Explanation of key differences
3. Idiomatic %s patterns used
4. Any caveats or considerations`, fromLanguage, toLanguage, fromLanguage, fence(code, fromLanguage), toLanguage, toLanguage)
}

func TechStack(projectType string, requirements []string, teamSize string) string {
	if teamSize == "" {
		teamSize = "small"
	}
	requirementsText := ""
	if len(requirements) > 0 {
		requirementsText = fmt.Sprintf("\nRequirements: %s", strings.Join(requirements, ", "))
	}
	return fmt.Sprintf(`Recommend a tech stack for a %s project.

Team Size: %s%s

Provide:
1. Frontend framework/library recommendation
2. Backend framework recommendation
3. Database selection
4. DevOps tools
5. Testing frameworks
6. CI/CD tools
7. Monitoring and logging solutions
8. Pros and cons of each choice
9. Learning curve considerations
10. Cost analysis`, projectType, teamSize, requirementsText)
}

func CodeSmells(code, language string) string {
	return fmt.Sprintf(`Detect code smells in this %s code.

Code:
%s

Identify:
1. Code smells present
2. Severity (Low/Medium/High)
3. Refactoring suggestions
4. Before/after examples`, language, fence(code, language))
}

func fence(code, language string) string {
	return fmt.Sprintf("```%s\n%s\n```", language, code)
}
