package usecase

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

//go:embed prompt/qa_system.md
var qaSystemPrompt string

// QAUseCase answers questions over the incident corpus. Retrieval is
// deliberately unfiltered: the whole corpus is pulled into the first message
// of every session, ranked by similarity to the opening question.
type QAUseCase struct {
	llm   gollem.LLMClient
	index interfaces.VectorIndex
}

func NewQAUseCase(llm gollem.LLMClient, index interfaces.VectorIndex) *QAUseCase {
	return &QAUseCase{
		llm:   llm,
		index: index,
	}
}

// Ask answers a question within a session. The first call embeds the query,
// retrieves the incident records and opens a live LLM session; follow-ups
// reuse that session so the records are not re-sent. The answer is returned
// verbatim and appended to the session transcript.
func (uc *QAUseCase) Ask(ctx context.Context, sess *ChatSession, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", goerr.Wrap(model.ErrInvalidRequest, "query must not be empty")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var resp *gollem.Response
	if sess.llm == nil {
		records, err := uc.retrieveRecords(ctx, query)
		if err != nil {
			return "", err
		}

		llmSess, err := uc.llm.NewSession(ctx)
		if err != nil {
			return "", goerr.Wrap(model.ErrServiceUnavailable, "failed to open LLM session", goerr.V("cause", err))
		}

		resp, err = llmSess.GenerateContent(ctx, gollem.Text(uc.firstMessage(sess.Turns, records, query)))
		if err != nil {
			return "", goerr.Wrap(model.ErrServiceUnavailable, "answer generation failed", goerr.V("cause", err))
		}
		sess.llm = llmSess
	} else {
		var err error
		resp, err = sess.llm.GenerateContent(ctx, gollem.Text(query))
		if err != nil {
			return "", goerr.Wrap(model.ErrServiceUnavailable, "answer generation failed", goerr.V("cause", err))
		}
	}

	if len(resp.Texts) == 0 {
		return "", goerr.Wrap(model.ErrServiceUnavailable, "answer generation returned no text")
	}
	answer := strings.Join(resp.Texts, "\n")

	sess.Turns = sess.Turns.Append(types.RoleUser, query)
	sess.Turns = sess.Turns.Append(types.RoleAssistant, answer)

	return answer, nil
}

// retrieveRecords embeds the query and pulls the full corpus from the vector
// index, rendered as numbered incident blocks.
func (uc *QAUseCase) retrieveRecords(ctx context.Context, query string) (string, error) {
	embeddings, err := uc.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{query})
	if err != nil {
		return "", goerr.Wrap(model.ErrServiceUnavailable, "query embedding failed", goerr.V("cause", err))
	}
	if len(embeddings) == 0 {
		return "", goerr.Wrap(model.ErrServiceUnavailable, "query embedding returned no vectors")
	}

	total, err := uc.index.Count(ctx)
	if err != nil {
		return "", goerr.Wrap(model.ErrServiceUnavailable, "failed to count indexed incidents", goerr.V("cause", err))
	}
	if total == 0 {
		return "(no incident records available)", nil
	}

	texts, err := uc.index.Query(ctx, model.ToFloat32(embeddings[0]), total)
	if err != nil {
		return "", goerr.Wrap(model.ErrServiceUnavailable, "incident retrieval failed", goerr.V("cause", err))
	}

	blocks := make([]string, 0, len(texts))
	for i, text := range texts {
		blocks = append(blocks, fmt.Sprintf("--- Incident %d ---\n%s", i+1, text))
	}
	return strings.Join(blocks, "\n\n"), nil
}

// firstMessage builds the opening message of a session: system prompt,
// incident records, and the user question. When the session already has a
// transcript (live session lost), the prior turns are replayed inline so a
// fresh LLM session can continue the conversation.
func (uc *QAUseCase) firstMessage(history model.Conversation, records, query string) string {
	var b strings.Builder
	b.WriteString(qaSystemPrompt)
	b.WriteString("\n\n=== INCIDENT RECORDS ===\n")
	b.WriteString(records)
	b.WriteString("\n")

	if len(history) == 0 {
		b.WriteString("\n=== USER QUESTION ===\n")
		b.WriteString(query)
		b.WriteString("\n\nPlease analyze the incidents above and answer the user's question following the response format.")
		return b.String()
	}

	b.WriteString("\n=== CONVERSATION SO FAR ===\n")
	for _, turn := range history {
		b.WriteString(turn.Role.String())
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("\n=== USER QUESTION ===\n")
	b.WriteString(query)
	return b.String()
}
