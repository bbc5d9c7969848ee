package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docuchat/internal/chatbot_service/rag/memory"
	"docuchat/internal/chatbot_service/rag/pipeline"
	"docuchat/internal/chatbot_service/rag/splitters"
	"docuchat/internal/chatbot_service/rag/storages/vectorstore"
	"docuchat/internal/chatbot_service/service"
	"docuchat/internal/chatbot_service/store"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeEmbedder struct{ dim int }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

func (f *fakeEmbedder) Name() string { return "fake/model" }

type fakeLLM struct{ answer string }

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f.answer, nil
}

// channelRecorder lets tests wait for the fire-and-forget analytics events.
type channelRecorder struct {
	events chan models.LogEvent
}

func (r *channelRecorder) Record(ctx context.Context, event models.LogEvent) error {
	r.events <- event
	return nil
}

func (r *channelRecorder) waitFor(t *testing.T, kind string) models.LogEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-r.events:
			if event.Kind == kind {
				return event
			}
		case <-deadline:
			t.Fatalf("no %s event recorded", kind)
		}
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *channelRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.ChatSession{}, &models.ChatHistory{}, &models.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	vectors, err := vectorstore.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	log := logger.New("test", "", "")
	embedder := &fakeEmbedder{dim: 2}
	indexing := pipeline.NewIndexingPipeline(splitters.NewCharSplitter(500), embedder, vectors, log)
	qa := pipeline.NewQAPipeline(vectors, embedder, &fakeLLM{answer: "the answer"}, 3, 0, 0, log)

	svc := service.NewService(store.NewStore(db), vectors, indexing, qa, memory.NewInMemory(), 10, log)
	recorder := &channelRecorder{events: make(chan models.LogEvent, 64)}
	return SetupRouter(NewHandler(svc), recorder, log), recorder
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postIngestText(t *testing.T, r *gin.Engine, text string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("user_id", "1")
	mw.WriteField("username", "alice")
	if text != "" {
		mw.WriteField("plain_text", text)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestAskBeforeIngestionReturnsConflict(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/ask", gin.H{"question": "hi", "user_id": 1, "username": "alice"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, expected 409", w.Code)
	}
	if body := decodeBody(t, w); body["error"] == "" {
		t.Fatalf("missing error field: %v", body)
	}
}

func TestIngestRequiresContent(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postIngestText(t, r, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, expected 400", w.Code)
	}
}

func TestIngestBuildAskRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := postIngestText(t, r, "useful knowledge"); w.Code != http.StatusOK {
		t.Fatalf("ingest status = %d: %s", w.Code, w.Body.String())
	}

	if w := postJSON(t, r, "/api/v1/build-index", gin.H{}); w.Code != http.StatusOK {
		t.Fatalf("build status = %d: %s", w.Code, w.Body.String())
	}

	w := postJSON(t, r, "/api/v1/ask", gin.H{"question": "what?", "user_id": 1, "username": "alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("ask status = %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["answer"] != "the answer" {
		t.Fatalf("answer = %v", body["answer"])
	}
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("missing session_id: %v", body)
	}

	chats := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/chats?user_id=1", nil)
	r.ServeHTTP(chats, req)
	if chats.Code != http.StatusOK {
		t.Fatalf("chats status = %d: %s", chats.Code, chats.Body.String())
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(chats.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("unexpected chats payload: %s", chats.Body.String())
	}
	if list[0]["session_id"] != sessionID {
		t.Fatalf("chat row has session %v, expected %s", list[0]["session_id"], sessionID)
	}
}

func TestClearMemoryEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/clear-memory", gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["message"] == "" {
		t.Fatalf("missing message: %v", body)
	}
}

func TestAnalyticsEventsPublished(t *testing.T) {
	r, recorder := newTestRouter(t)

	postJSON(t, r, "/api/v1/ask", gin.H{"question": "hi", "user_id": 1, "username": "alice"})

	usage := recorder.waitFor(t, models.LogEventUsage)
	if usage.Endpoint != "/api/v1/ask" || usage.RequestType != "chat" || usage.UserID != 1 {
		t.Fatalf("unexpected usage event: %+v", usage)
	}

	perf := recorder.waitFor(t, models.LogEventPerformance)
	if perf.Endpoint != "/api/v1/ask" {
		t.Fatalf("unexpected performance event: %+v", perf)
	}

	// The ask failed with index-not-ready, so an error event follows.
	errEvent := recorder.waitFor(t, models.LogEventError)
	if errEvent.Endpoint != "/api/v1/ask" {
		t.Fatalf("unexpected error event: %+v", errEvent)
	}
}
