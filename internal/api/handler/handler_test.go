package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/openoa"
	"github.com/windoa/openoa_go_server/internal/pkg/response"
	"github.com/windoa/openoa_go_server/internal/plantdata"
	"github.com/windoa/openoa_go_server/internal/repository"
	"github.com/windoa/openoa_go_server/internal/service"
	"github.com/windoa/openoa_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const samplePlantMeta = `{
	"name": "La Haute Borne",
	"capacity": 8.2,
	"latitude": 48.45,
	"longitude": 5.59,
	"asset_list": [
		{"name": "R80711", "capacity_kw": 2050},
		{"name": "R80721", "capacity_kw": 2050}
	]
}`

const sampleCSV = `Wind_turbine_name,Date_time,P_avg,Ws_avg,Wa_avg,Energy_kWh
R80711,2014-01-01 00:00:00,642.78,7.12,221.5,107.13
R80721,2014-01-01 00:00:00,598.12,6.98,219.8,99.69
R80711,2014-01-01 00:10:00,688.31,7.34,224.1,114.72
R80721,2014-01-01 00:10:00,612.54,7.05,222.6,102.09
`

type testServer struct {
	router *gin.Engine
	cfg    *config.Config
}

// setupTestServer 组装完整的 HTTP 栈：内存数据库 + mock 引擎 + 临时目录
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "plant_meta.json"), []byte(samplePlantMeta), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "la_haute_borne.csv"), []byte(sampleCSV), 0644))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Upload: config.UploadConfig{
			MaxSize:           1024 * 1024,
			Dir:               t.TempDir(),
			ExpireHours:       24,
			AllowedExtensions: []string{".csv", ".json"},
		},
		Sample: config.SampleConfig{DataDir: dataDir},
		Analysis: config.AnalysisConfig{
			Mode:           "mock",
			TimeoutSeconds: 10,
			MaxIterations:  10000,
			HistoryLimit:   50,
		},
	}

	datasetRepo := repository.NewDatasetRepository(db)
	runRepo := repository.NewAnalysisRunRepository(db)
	datasetService := service.NewDatasetService(datasetRepo, plantdata.NewSchema(nil), cfg)
	require.NoError(t, datasetService.LoadDefault())
	analysisService := service.NewAnalysisService(datasetService, runRepo, openoa.NewMockEngine(), cfg)

	healthHandler := NewHealthHandler(analysisService, cfg)
	uploadHandler := NewUploadHandler(datasetService, cfg)
	dataHandler := NewDataHandler(datasetService)
	analysisHandler := NewAnalysisHandler(analysisService)

	router := gin.New()
	router.GET("/health", healthHandler.Check)
	api := router.Group("/api/v1")
	{
		api.GET("/info", healthHandler.Info)
		api.POST("/upload-plant-data", uploadHandler.Upload)
		api.POST("/cleanup-old-files", uploadHandler.Cleanup)
		api.GET("/sample-data", dataHandler.Sample)
		api.GET("/sample-data/metadata", dataHandler.SampleMetadata)
		api.GET("/datasets", dataHandler.List)
		api.DELETE("/datasets/:id", dataHandler.Delete)

		analysis := api.Group("/analysis")
		{
			analysis.GET("/types", analysisHandler.Types)
			analysis.GET("/history", analysisHandler.History)
			analysis.POST("/aep", analysisHandler.AEP)
			analysis.POST("/electrical-losses", analysisHandler.ElectricalLosses)
			analysis.POST("/wake-losses", analysisHandler.WakeLosses)
			analysis.POST("/turbine-ideal-energy", analysisHandler.TurbineIdealEnergy)
			analysis.POST("/eya-gap", analysisHandler.EYAGap)
		}
	}

	return &testServer{router: router, cfg: cfg}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// performUpload 构造 multipart 上传请求
func performUpload(t *testing.T, r http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/upload-plant-data", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
