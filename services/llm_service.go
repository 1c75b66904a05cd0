package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"pdfcast/config"
	"pdfcast/models"
)

// TextGenerator drives a language model with a single prompt. The prompt
// construction around it is deterministic; the model's own sampling is the
// only source of variation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements TextGenerator against Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

// Generate sends the prompt to Gemini and collects the text parts of the
// first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}

// LLMService builds prompts for chat answers and podcast scripts and runs
// them through the injected generator.
type LLMService struct {
	generator TextGenerator
	cfg       config.LLMConfig
	hostA     config.HostConfig
	hostB     config.HostConfig
}

func NewLLMService(generator TextGenerator, cfg config.LLMConfig, hostA, hostB config.HostConfig) *LLMService {
	return &LLMService{generator: generator, cfg: cfg, hostA: hostA, hostB: hostB}
}

// AnswerWithContext answers a query against the retrieved chunks. The
// model is instructed to answer only from the supplied context, cite page
// numbers inline, and say so explicitly when the context is insufficient.
func (s *LLMService) AnswerWithContext(ctx context.Context, query string, results []models.RetrievalResult) (string, error) {
	prompt := s.BuildChatPrompt(query, results)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.Printf("SERVICE: Sending chat prompt to the language model...")
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("could not generate answer: %w", err)
	}
	return answer, nil
}

// BuildChatPrompt constructs the chat-mode prompt. Chunks appear in
// retrieval order, each labeled with its source page.
func (s *LLMService) BuildChatPrompt(query string, results []models.RetrievalResult) string {
	contextParts := make([]string, len(results))
	for i, r := range results {
		contextParts[i] = fmt.Sprintf("[Page %d]: %s", r.Page, r.Text)
	}

	return fmt.Sprintf(`You are a helpful assistant analyzing a PDF document. Answer the user's question based on the provided context.

CONTEXT FROM PDF:
%s

USER QUESTION: %s

Instructions:
- Answer based on the context provided
- Cite page numbers when referencing information (e.g., "According to page 5...")
- If the context doesn't contain the answer, say so clearly
- Be concise but thorough

ANSWER:`, strings.Join(contextParts, "\n\n"), query)
}

// GeneratePodcastScript produces a two-host dialogue script covering the
// document from start to end. duration selects one of the configured
// length guidelines; topic optionally narrows the focus.
func (s *LLMService) GeneratePodcastScript(ctx context.Context, docText, topic, duration string) (string, error) {
	prompt, err := s.BuildPodcastPrompt(docText, topic, duration)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.Printf("SERVICE: Sending podcast prompt to the language model (duration=%s)...", duration)
	script, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("could not generate podcast script: %w", err)
	}
	return script, nil
}

// BuildPodcastPrompt constructs the narrative-mode prompt, applying the
// context budget to the document text first.
func (s *LLMService) BuildPodcastPrompt(docText, topic, duration string) (string, error) {
	durationDesc, ok := s.cfg.DurationMap[duration]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}

	textSample, coverageNote := sampleForBudget(docText, s.cfg.MaxContextChars)

	topicLine := ""
	if topic != "" {
		topicLine = fmt.Sprintf("- Special focus on: %s\n", topic)
	}

	return fmt.Sprintf(`Create an engaging podcast script between two hosts discussing this ENTIRE document %s.

DOCUMENT:
%s

PODCAST REQUIREMENTS:
- Duration: %s
- Host 1 (%s): Curious, asks insightful questions, reacts naturally
- Host 2 (%s): Knowledgeable, explains concepts clearly, uses analogies
%s- COVER THE WHOLE DOCUMENT systematically from beginning to end
- Discuss all major topics, sections, and key points

STYLE GUIDELINES:
- Natural conversation with interruptions ("Oh!", "Wait, that's interesting!", "So you're saying...")
- Build on each other's points
- Use analogies and real-world examples
- Show enthusiasm and curiosity
- Ask clarifying questions
- Summarize key insights

FORMAT (STRICT):
%s: [dialogue]
%s: [dialogue]
%s: [dialogue]
...

Make it feel like two friends excitedly discussing fascinating ideas from the ENTIRE document!`,
		coverageNote, textSample, durationDesc,
		s.hostA.Name, s.hostB.Name, topicLine,
		s.hostA.Name, s.hostB.Name, s.hostA.Name), nil
}

// withTimeout bounds a model call so a stalled provider cannot hold the
// caller (and any lock it carries) indefinitely.
func (s *LLMService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSecs)*time.Second)
}

// sampleForBudget bounds text to the character budget. Over-budget
// documents are not truncated from the front: three windows of budget/3
// characters are taken from the head, middle, and tail and joined with
// explicit omission markers, so the model still sees the beginning, middle,
// and end. Coverage across the whole document is traded for detail.
func sampleForBudget(text string, budget int) (sample, coverageNote string) {
	if len(text) <= budget {
		return text, "(Full document included)"
	}

	window := budget / 3
	mid := len(text) / 2
	sample = text[:runeBoundary(text, window)] +
		"\n\n[... middle section ...]\n\n" +
		text[runeBoundary(text, mid-window/2):runeBoundary(text, mid+window/2)] +
		"\n\n[... later section ...]\n\n" +
		text[runeBoundary(text, len(text)-window):]
	coverageNote = fmt.Sprintf("(Covering key sections from %d characters total)", len(text))
	return sample, coverageNote
}

// runeBoundary backs a byte index up to the start of the rune it falls
// inside, so a windowed cut never emits invalid UTF-8.
func runeBoundary(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
