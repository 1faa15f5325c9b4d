package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codecrux/genai"
	"codecrux/mocks"
	"codecrux/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// readRecords parses the "data: " lines of an SSE body.
func readRecords(t *testing.T, body []byte) []streamRecord {
	t.Helper()
	var records []streamRecord
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var record streamRecord
		require.NoError(t, json.Unmarshal([]byte(line[len("data: "):]), &record))
		records = append(records, record)
	}
	return records
}

func TestStreamChat_Emits_Chunks_Then_Done(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().
		GenerateStream(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, prompt string, opts genai.Options, onChunk func(string)) (string, error) {
			onChunk("Hel")
			onChunk("lo")
			return "Hello", nil
		})

	handler := NewServer(testLogger(), services.NewAssistService(generator), nil)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/ai/chat/stream", "application/json",
		strings.NewReader(`{"message":"hi"}`))
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	req.NoError(err)

	records := readRecords(t, buf.Bytes())
	req.Len(records, 3)

	req.Equal(streamRecord{Chunk: "Hel", Done: false}, records[0])
	req.Equal(streamRecord{Chunk: "lo", Done: false}, records[1])

	// The terminal record carries the aggregate and an explicit empty chunk
	req.Equal(streamRecord{Chunk: "", Done: true, FullResponse: "Hello"}, records[2])
}

func TestStreamChat_Failure_Ends_With_Error_Record(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().
		GenerateStream(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, prompt string, opts genai.Options, onChunk func(string)) (string, error) {
			onChunk("par")
			return "par", context.DeadlineExceeded
		})

	handler := NewServer(testLogger(), services.NewAssistService(generator), nil)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/ai/chat/stream", "application/json",
		strings.NewReader(`{"message":"hi"}`))
	req.NoError(err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	req.NoError(err)

	records := readRecords(t, buf.Bytes())
	req.Len(records, 2)
	req.Equal(streamRecord{Chunk: "par", Done: false}, records[0])

	req.True(records[1].Done)
	req.Empty(records[1].FullResponse)
	req.Contains(records[1].Error, "deadline")
}

func TestStreamChat_Validation_Happens_Before_Streaming(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)

	handler := NewServer(testLogger(), services.NewAssistService(generator), nil)
	server := httptest.NewServer(handler)
	defer server.Close()

	// Missing message: plain 400, no SSE headers
	resp, err := http.Post(server.URL+"/api/ai/chat/stream", "application/json",
		strings.NewReader(`{"history":[]}`))
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusBadRequest, resp.StatusCode)
	req.Equal("application/json", resp.Header.Get("Content-Type"))
}
