package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// stubKnowledgeBase implements driving.KnowledgeBase for command tests.
type stubKnowledgeBase struct {
	docs      []domain.DocumentInfo
	answer    *domain.Answer
	ingested  *domain.Document
	removed   []string
	resetDone bool
	err       error
}

func (s *stubKnowledgeBase) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.ingested != nil {
		return s.ingested, nil
	}
	return &domain.Document{Name: raw.Name, Format: "plaintext", ChunkCount: 1}, nil
}

func (s *stubKnowledgeBase) Remove(_ context.Context, name string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, name)
	return nil
}

func (s *stubKnowledgeBase) ResetAll(_ context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.resetDone = true
	return nil
}

func (s *stubKnowledgeBase) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func (s *stubKnowledgeBase) Answer(_ context.Context, _ string, _ domain.QueryOptions) (*domain.Answer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.answer != nil {
		return s.answer, nil
	}
	return &domain.Answer{Text: domain.NoDocumentsResponse}, nil
}

// setupTestServices wires a stub knowledge base and returns a cleanup.
func setupTestServices(stub *stubKnowledgeBase) func() {
	knowledgeBase = stub
	return func() {
		knowledgeBase = nil
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "docsage version")
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(&stubKnowledgeBase{})
	defer cleanup()

	_, err := execute(t, "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_PrintsAnswerAndCitations(t *testing.T) {
	stub := &stubKnowledgeBase{
		answer: &domain.Answer{
			Text: "Revenue grew 12% [Source 1].",
			Citations: []domain.Citation{
				{DocumentName: "report.pdf", Location: "page 3"},
			},
		},
	}
	cleanup := setupTestServices(stub)
	defer cleanup()

	out, err := execute(t, "ask", "how did revenue develop?")

	require.NoError(t, err)
	assert.Contains(t, out, "Revenue grew 12%")
	assert.Contains(t, out, "report.pdf (page 3)")
}

func TestAskCmd_JSONOutput(t *testing.T) {
	stub := &stubKnowledgeBase{
		answer: &domain.Answer{Text: "plain answer"},
	}
	cleanup := setupTestServices(stub)
	defer cleanup()

	out, err := execute(t, "ask", "--json", "question")

	require.NoError(t, err)
	assert.Contains(t, out, `"Text": "plain answer"`)
}

func TestAskCmd_HasTopKFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestDocumentsCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(&stubKnowledgeBase{})
	defer cleanup()

	out, err := execute(t, "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents indexed")
}

func TestDocumentsCmd_ListsDocuments(t *testing.T) {
	stub := &stubKnowledgeBase{
		docs: []domain.DocumentInfo{
			{Name: "report.pdf", ChunkCount: 12},
			{Name: "notes.md", ChunkCount: 3},
		},
	}
	cleanup := setupTestServices(stub)
	defer cleanup()

	out, err := execute(t, "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "report.pdf (12 chunks)")
	assert.Contains(t, out, "notes.md (3 chunks)")
}

func TestRemoveCmd(t *testing.T) {
	stub := &stubKnowledgeBase{}
	cleanup := setupTestServices(stub)
	defer cleanup()

	out, err := execute(t, "remove", "report.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"report.pdf"}, stub.removed)
	assert.Contains(t, out, "Removed report.pdf")
}

func TestResetCmd_AbortsWithoutConfirmation(t *testing.T) {
	stub := &stubKnowledgeBase{}
	cleanup := setupTestServices(stub)
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("n\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, "reset")

	require.NoError(t, err)
	assert.False(t, stub.resetDone)
	assert.Contains(t, out, "Aborted")
}

func TestResetCmd_Force(t *testing.T) {
	stub := &stubKnowledgeBase{}
	cleanup := setupTestServices(stub)
	defer cleanup()

	out, err := execute(t, "reset", "--force")

	require.NoError(t, err)
	assert.True(t, stub.resetDone)
	assert.Contains(t, out, "Knowledge base reset")
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	cleanup := setupTestServices(&stubKnowledgeBase{})
	defer cleanup()

	_, err := execute(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}
