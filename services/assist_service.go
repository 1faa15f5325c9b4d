package services

import (
	"context"

	"codecrux/contract"
	"codecrux/domain"
	"codecrux/genai"
	"codecrux/prompts"
)

// AssistService backs the thin developer-tool endpoints: each call is
// one prompt template handed to the provider, nothing more.
type AssistService struct {
	generator contract.TextGenerator
}

func NewAssistService(generator contract.TextGenerator) *AssistService {
	return &AssistService{generator: generator}
}

func (s *AssistService) Chat(ctx context.Context, message string, history domain.History, systemPrompt string) (string, error) {
	normalized, err := history.Normalize()
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, prompts.BuildChatPrompt(normalized, message, systemPrompt), genai.Options{})
}

// StreamChat drives one streaming generation for a single caller, the
// room-less twin of the relay's chat turn.
func (s *AssistService) StreamChat(ctx context.Context, message string, history domain.History, onChunk func(string)) (string, error) {
	normalized, err := history.Normalize()
	if err != nil {
		return "", err
	}
	return s.generator.GenerateStream(ctx, prompts.BuildChatPrompt(normalized, message, ""), genai.Options{}, onChunk)
}

func (s *AssistService) ReviewCode(ctx context.Context, code, language, reviewContext string) (string, error) {
	return s.generator.Generate(ctx, prompts.CodeReview(code, language, reviewContext), genai.Options{})
}

func (s *AssistService) DetectBugs(ctx context.Context, code, language, errorMessage string) (string, error) {
	return s.generator.Generate(ctx, prompts.DetectBugs(code, language, errorMessage), genai.Options{})
}

func (s *AssistService) ExplainCode(ctx context.Context, code, language, level string) (string, error) {
	return s.generator.Generate(ctx, prompts.ExplainCode(code, language, level), genai.Options{})
}

func (s *AssistService) GenerateTests(ctx context.Context, code, language, framework string) (string, error) {
	return s.generator.Generate(ctx, prompts.GenerateTests(code, language, framework), genai.Options{})
}

func (s *AssistService) RefactorCode(ctx context.Context, code, language string, goals []string) (string, error) {
	return s.generator.Generate(ctx, prompts.RefactorCode(code, language, goals), genai.Options{})
}

func (s *AssistService) GenerateSQL(ctx context.Context, description, schema, dialect string) (string, error) {
	return s.generator.Generate(ctx, prompts.SQLQuery(description, schema, dialect), genai.Options{})
}

func (s *AssistService) GenerateRegex(ctx context.Context, description string, examples []string) (string, error) {
	return s.generator.Generate(ctx, prompts.Regex(description, examples), genai.Options{})
}

func (s *AssistService) GenerateSnippet(ctx context.Context, description, language, style string) (string, error) {
	return s.generator.Generate(ctx, prompts.Snippet(description, language, style), genai.Options{})
}

// GenerateCommitMessage runs at a lower temperature than the default.
func (s *AssistService) GenerateCommitMessage(ctx context.Context, diff, style string) (string, error) {
	temp := 0.5
	return s.generator.Generate(ctx, prompts.CommitMessage(diff, style), genai.Options{Temperature: &temp})
}

func (s *AssistService) ExplainAlgorithm(ctx context.Context, name, language string, includeCode bool) (string, error) {
	return s.generator.Generate(ctx, prompts.ExplainAlgorithm(name, language, includeCode), genai.Options{})
}

func (s *AssistService) GenerateDocumentation(ctx context.Context, code, language, docStyle string) (string, error) {
	return s.generator.Generate(ctx, prompts.Documentation(code, language, docStyle), genai.Options{})
}

// SuggestCode runs at a lower temperature than the default, completion
// candidates should stay close to the surrounding code.
func (s *AssistService) SuggestCode(ctx context.Context, partialCode, language, suggestContext string) (string, error) {
	temp := 0.4
	return s.generator.Generate(ctx, prompts.SuggestCode(partialCode, language, suggestContext), genai.Options{Temperature: &temp})
}

func (s *AssistService) GenerateAPIDocumentation(ctx context.Context, endpoint, method, requestBody, responseBody string) (string, error) {
	return s.generator.Generate(ctx, prompts.APIDocumentation(endpoint, method, requestBody, responseBody), genai.Options{})
}

func (s *AssistService) SuggestArchitecture(ctx context.Context, projectDescription string, requirements, constraints []string) (string, error) {
	return s.generator.Generate(ctx, prompts.Architecture(projectDescription, requirements, constraints), genai.Options{})
}

func (s *AssistService) OptimizePerformance(ctx context.Context, code, language, performanceMetrics string) (string, error) {
	return s.generator.Generate(ctx, prompts.OptimizePerformance(code, language, performanceMetrics), genai.Options{})
}

func (s *AssistService) ScanSecurity(ctx context.Context, code, language, framework string) (string, error) {
	return s.generator.Generate(ctx, prompts.SecurityScan(code, language, framework), genai.Options{})
}

func (s *AssistService) ConvertCode(ctx context.Context, code, fromLanguage, toLanguage string) (string, error) {
	return s.generator.Generate(ctx, prompts.ConvertCode(code, fromLanguage, toLanguage), genai.Options{})
}

func (s *AssistService) AdviseTechStack(ctx context.Context, projectType string, requirements []string, teamSize string) (string, error) {
	return s.generator.Generate(ctx, prompts.TechStack(projectType, requirements, teamSize), genai.Options{})
}

func (s *AssistService) DetectCodeSmells(ctx context.Context, code, language string) (string, error) {
	return s.generator.Generate(ctx, prompts.CodeSmells(code, language), genai.Options{})
}
