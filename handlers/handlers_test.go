package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leafstage/classifier"
	"leafstage/database"
	"leafstage/diagnosis"
	"leafstage/history"
	"leafstage/models"
	"leafstage/oracle"
	"leafstage/severity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type cannedOracle struct{ reply string }

func (o cannedOracle) Describe(context.Context, oracle.Request) (string, error) { return o.reply, nil }
func (o cannedOracle) Model() string                                            { return "canned" }

type testServer struct {
	router  *gin.Engine
	handler *Handler
	ledger  *history.Ledger
	repo    *database.Repository
	db      *gorm.DB
}

func newTestServer(t *testing.T, oracleReply string) *testServer {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	repo := database.NewRepository(db)
	ledger, err := history.NewLedger(history.Options{Capacity: 20}, history.NewGormStore(db))
	require.NoError(t, err)

	scorer := severity.NewScorer(severity.DefaultBases())
	engines := []*diagnosis.Engine{
		diagnosis.NewEngine(classifier.NewLocal(classifier.DefaultHeuristic()), scorer, ledger, diagnosis.WithRecorder(repo)),
		diagnosis.NewEngine(classifier.NewRemote(cannedOracle{reply: oracleReply}), scorer, ledger, diagnosis.WithRecorder(repo)),
	}
	h, err := New(engines, ledger, repo, Options{
		DefaultStrategy: classifier.StrategyLocal,
		UploadDir:       filepath.Join(dir, "uploads"),
	})
	require.NoError(t, err)

	return &testServer{router: NewRouter(h, "", 10), handler: h, ledger: ledger, repo: repo, db: db}
}

func leafPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, s *testServer, filename string, data []byte, strategy string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	if strategy != "" {
		require.NoError(t, w.WriteField("strategy", strategy))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func do(s *testServer, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestDiagnose_LocalHealthy(t *testing.T) {
	s := newTestServer(t, "")
	rec := upload(t, s, "leaf.png", leafPNG(t, color.RGBA{30, 160, 40, 255}), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var d models.Diagnosis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, models.StageHealthy, d.Result.Stage)
	assert.Zero(t, d.Result.SeverityScore)
	assert.Equal(t, "local", d.Result.Method)
	require.NotNil(t, d.Quality)
	assert.FileExists(t, d.ImagePath)

	items := s.ledger.List()
	require.Len(t, items, 1)
	assert.Equal(t, d.Result.ID, items[0].ID)

	stored, err := s.repo.Get(d.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, "leaf.png", stored.OriginalName)
}

func TestDiagnose_RejectsBadInput(t *testing.T) {
	s := newTestServer(t, "")

	rec := upload(t, s, "leaf.gif", []byte("GIF89a"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, s, "leaf.png", []byte("not really a png"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ImageDecodeFailure")

	rec = upload(t, s, "leaf.png", leafPNG(t, color.RGBA{30, 160, 40, 255}), "telepathy")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodPost, "/api/diagnose")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, s.ledger.Len())
}

func TestDiagnose_RemoteSchemaFailure(t *testing.T) {
	s := newTestServer(t, `{"stage":"E1","confidence":0.7,"avgLesionSize":2,"reasoning":"x","detectedSymptoms":[],"visualEvidenceRegions":"x"}`)
	rec := upload(t, s, "leaf.jpg", leafPNG(t, color.RGBA{30, 160, 40, 255}), "remote")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "InvalidResponseSchema")
	assert.Zero(t, s.ledger.Len())

	_, total, err := s.repo.List(10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDiagnose_RemoteSuccess(t *testing.T) {
	s := newTestServer(t, `{"stage":"E3","confidence":0.95,"lesionCount":40,"avgLesionSize":6,"reasoningForFarmer":"dead tissue","detectedSymptoms":["necrosis"],"visualEvidenceRegions":"whole leaf"}`)
	rec := upload(t, s, "leaf.png", leafPNG(t, color.RGBA{30, 160, 40, 255}), "remote")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var d models.Diagnosis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, models.StageSevere, d.Result.Stage)
	assert.Equal(t, 89.0, d.Result.SeverityScore)
	assert.Equal(t, "Severe Leaf Blight", d.Result.Info.Name)
}

func TestHistoryEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	var ids []string
	for i := 0; i < 3; i++ {
		rec := upload(t, s, "leaf.png", leafPNG(t, color.RGBA{30, 160, 40, 255}), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var d models.Diagnosis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
		ids = append(ids, d.Result.ID)
	}

	rec := do(s, http.MethodGet, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data     []models.HistoryItem `json:"data"`
		Total    int                  `json:"total"`
		Capacity int                  `json:"capacity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 20, list.Capacity)
	assert.Equal(t, ids[2], list.Data[0].ID)

	rec = do(s, http.MethodGet, "/api/history/"+ids[1])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Healthy Leaf")

	rec = do(s, http.MethodDelete, "/api/history/"+ids[1])
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(s, http.MethodGet, "/api/history/"+ids[1])
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(s, http.MethodDelete, "/api/history/"+ids[1])
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, http.MethodGet, "/api/statistics")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats database.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.TotalDiagnoses)
	assert.EqualValues(t, 2, stats.ByStage["H0"])

	rec = do(s, http.MethodGet, "/api/records?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"limit":1`)

	rec = do(s, http.MethodDelete, "/api/history")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, s.ledger.Len())
}

func TestDiagnose_RejectsOversizedUpload(t *testing.T) {
	s := newTestServer(t, "")
	s.router = NewRouter(s.handler, "", 1)

	rec := upload(t, s, "leaf.png", bytes.Repeat([]byte{0x89}, 2<<20), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maximum size is 1 MB")
	assert.Zero(t, s.ledger.Len())

	rec = upload(t, s, "leaf.png", leafPNG(t, color.RGBA{30, 160, 40, 255}), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteDiagnosis_StorageFailureKeepsHistory(t *testing.T) {
	s := newTestServer(t, "")
	rec := upload(t, s, "leaf.png", leafPNG(t, color.RGBA{30, 160, 40, 255}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d models.Diagnosis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec = do(s, http.MethodDelete, "/api/history/"+d.Result.ID)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	_, ok := s.ledger.Get(d.Result.ID)
	assert.True(t, ok)

	rec = do(s, http.MethodDelete, "/api/history")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, s.ledger.Len())
}

func TestStageEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(s, http.MethodGet, "/api/stages/e2")
	require.Equal(t, http.StatusOK, rec.Code)
	var info models.DiseaseInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, models.StageMid, info.Stage)

	rec = do(s, http.MethodGet, "/api/stages/X1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Non-diagnostic Image")

	rec = do(s, http.MethodGet, "/api/stages")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorStatus(t *testing.T) {
	status, _ := errorStatus(&classifier.ClassificationError{Kind: classifier.KindOracleUnavailable, Err: context.DeadlineExceeded})
	assert.Equal(t, http.StatusGatewayTimeout, status)

	status, _ = errorStatus(&classifier.ClassificationError{Kind: classifier.KindOracleUnavailable, Err: assert.AnError})
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = errorStatus(context.Canceled)
	assert.Equal(t, statusClientClosedRequest, status)
}
