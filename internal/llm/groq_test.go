package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
}

func sessionConfig() interview.SessionConfig {
	return interview.NewConfig(interview.CategoryTechnical, interview.DifficultyMedium, "Backend engineer, Go and Postgres.")
}

func TestNextQuestion(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatReply(t, w, "  What is a race condition?  ")
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL+"/", "test-model", "secret-key")

	question, err := client.NextQuestion(context.Background(), sessionConfig(), 3)
	require.NoError(t, err)
	assert.Equal(t, "What is a race condition?", question)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "question number 3 out of 10")
	assert.Contains(t, gotReq.Messages[0].Content, "Backend engineer")
}

func TestNextQuestion_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		chatReply(t, w, "A question")
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	_, err := client.NextQuestion(context.Background(), sessionConfig(), 1)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestNextQuestion_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "   ")
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	_, err := client.NextQuestion(context.Background(), sessionConfig(), 1)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
}

func TestNextQuestion_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	_, err := client.NextQuestion(context.Background(), sessionConfig(), 1)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Reason, "503")
}

func TestGradeAnswer_FencedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "```json\n{\"totalScore\":8,\"accuracy\":9,\"communication\":7,\"depth\":8,\"aiDetected\":false,\"aiFlagReason\":\"\",\"feedback\":\"Good coverage of the topic.\",\"improvement\":\"Mention tradeoffs.\",\"resources\":[{\"title\":\"Go blog\",\"url\":\"https://go.dev/blog\",\"reason\":\"Authoritative\"}]}\n```")
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	grade, err := client.GradeAnswer(context.Background(), sessionConfig(), "Q", "A", 4)
	require.NoError(t, err)

	assert.Equal(t, 8, grade.TotalScore)
	assert.Equal(t, 9, grade.Accuracy)
	assert.Equal(t, "Good coverage of the topic.", grade.Feedback)
	require.Len(t, grade.Resources, 1)
	assert.Equal(t, "https://go.dev/blog", grade.Resources[0].URL)
}

func TestGradeAnswer_ClampsOutOfRangeScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"totalScore":15,"accuracy":-3,"communication":10,"depth":11,"feedback":"ok","improvement":"ok","resources":[]}`)
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	grade, err := client.GradeAnswer(context.Background(), sessionConfig(), "Q", "A", 3)
	require.NoError(t, err)

	assert.Equal(t, 10, grade.TotalScore)
	assert.Equal(t, 0, grade.Accuracy)
	assert.Equal(t, 10, grade.Communication)
	assert.Equal(t, 10, grade.Depth)
}

func TestGradeAnswer_RetriesThenFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		chatReply(t, w, "I cannot produce JSON today.")
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	_, err := client.GradeAnswer(context.Background(), sessionConfig(), "Q", "A", 3)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, maxRetries, calls)
}

func TestGradeAnswer_RecoversOnRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			chatReply(t, w, "garbage with no object")
			return
		}
		chatReply(t, w, `{"totalScore":6,"accuracy":6,"communication":6,"depth":6,"feedback":"fine","improvement":"more detail","resources":[]}`)
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-model", "")
	grade, err := client.GradeAnswer(context.Background(), sessionConfig(), "Q", "A", 3)
	require.NoError(t, err)
	assert.Equal(t, 6, grade.TotalScore)
	assert.Equal(t, 2, calls)
}

func TestGradeAnswer_CancelledContextStopsRetrying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "irrelevant")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewGroqClient(srv.URL, "test-model", "")
	_, err := client.GradeAnswer(ctx, sessionConfig(), "Q", "A", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "context canceled"))
}

func TestParseGrade_RequiresFeedback(t *testing.T) {
	_, err := parseGrade(`{"totalScore":7,"feedback":"  "}`)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Here you go: {"a":{"b":2}} hope that helps`, `{"a":{"b":2}}`},
		{"braces in strings", `{"a":"}{","b":1}`, `{"a":"}{","b":1}`},
		{"stray closing brace first", `} {"a":1}`, `{"a":1}`},
		{"escaped quote", `{"a":"say \"hi\" {"}`, `{"a":"say \"hi\" {"}`},
		{"no object", "nothing here", ""},
		{"unterminated", `{"a":1`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
