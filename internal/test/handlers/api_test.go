package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pipeline-board/internal/handlers"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
	"pipeline-board/internal/test/testutil"
)

const jwtSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

type apiFixture struct {
	router *gin.Engine
	store  *testutil.FakeStore
	prefs  *testutil.FakePreferences
	boards *services.BoardService
}

func newAPI(t *testing.T, leads ...models.Lead) *apiFixture {
	t.Helper()
	return newAPIWithFiles(t, nil, leads...)
}

// newAPIWithFiles enables photo routes backed by files when it is non-nil.
func newAPIWithFiles(t *testing.T, files services.FileStore, leads ...models.Lead) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		store: testutil.NewFakeStore(leads...),
		prefs: testutil.NewFakePreferences(),
	}
	f.boards = services.NewBoardService(f.store, testutil.NewFakeFeed(), f.prefs, 0)
	t.Cleanup(func() { f.boards.Close(context.Background()) })

	var attachments *services.AttachmentService
	if files != nil {
		attachments = services.NewAttachmentService(files)
	}
	f.router = gin.New()
	handlers.RegisterRoutes(f.router, jwtSecret, f.boards, attachments)
	return f
}

func bearer(t *testing.T, userID uuid.UUID, role models.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          userID.String(),
		"app_metadata": map[string]interface{}{"role": string(role)},
	})
	s, err := token.SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAPI_RequiresAuth(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, "GET", "/api/v1/board", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_GetBoard(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusPaymentDone)
	f := newAPI(t, lead, testutil.NewLead("Bob", models.StatusLeads))
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "GET", "/api/v1/board?search=ann", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, len(models.Stages))
	assert.Equal(t, 1, resp.MissingPaymentInfo)

	total := 0
	for _, col := range resp.Columns {
		total += col.Count
		assert.Equal(t, "normal", col.State)
	}
	assert.Equal(t, 1, total)

	paymentDone := resp.Columns[models.StatusPaymentDone.Position()]
	require.Len(t, paymentDone.Leads, 1)
	assert.True(t, paymentDone.Leads[0].MissingPaymentInfo)
	assert.Equal(t, "100", paymentDone.Leads[0].TotalValue.String())
}

func TestAPI_GetBoard_InvalidStatusFilter(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, "GET", "/api/v1/board?status=shipped", bearer(t, uuid.New(), models.RoleSales), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_MoveLead(t *testing.T) {
	unpaid := testutil.NewLead("Ann", models.StatusPaymentDone)
	paid := testutil.Paid(testutil.NewLead("Bob", models.StatusPaymentDone))
	f := newAPI(t, unpaid, paid)
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "POST", "/api/v1/leads/"+unpaid.ID.String()+"/move", auth,
		models.MoveRequest{TargetStatus: models.StatusProduction})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "payment type required")

	w = f.do(t, "POST", "/api/v1/leads/"+paid.ID.String()+"/move", auth,
		models.MoveRequest{TargetStatus: models.StatusProduction})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MoveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, models.StatusProduction, resp.To)

	updates := f.store.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, paid.ID, updates[0].ID)
}

func TestAPI_MoveLead_BadInput(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusLeads)
	f := newAPI(t, lead)
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "POST", "/api/v1/leads/not-a-uuid/move", auth, models.MoveRequest{TargetStatus: models.StatusLeads})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/api/v1/leads/"+lead.ID.String()+"/move", auth, models.MoveRequest{TargetStatus: "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/api/v1/leads/"+uuid.New().String()+"/move", auth, models.MoveRequest{TargetStatus: models.StatusLeads})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ResizeColumnClamps(t *testing.T) {
	f := newAPI(t)
	userID := uuid.New()
	auth := bearer(t, userID, models.RoleSales)

	w := f.do(t, "PUT", "/api/v1/preferences/columns/leads/width", auth, models.ResizeRequest{Width: 700})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ResizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 600, resp.Width)

	stored, ok := f.prefs.Stored(userID)
	require.True(t, ok)
	assert.Equal(t, 600, stored.ColumnWidths["leads"])
}

func TestAPI_PreferenceSaveFailureIsBadGateway(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "GET", "/api/v1/preferences", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	f.prefs.UpsertErr = testutil.ErrUnavailable
	w = f.do(t, "PUT", "/api/v1/preferences/columns/leads/width", auth, models.ResizeRequest{Width: 400})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAPI_ColumnStateActions(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "POST", "/api/v1/preferences/columns/production/maximize", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, "POST", "/api/v1/preferences/columns/leads/maximize", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PreferenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.MaximizedColumn)
	assert.Equal(t, "leads", *resp.MaximizedColumn)

	w = f.do(t, "POST", "/api/v1/preferences/columns/leads/explode", auth, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_SelectionAndBulkDelete(t *testing.T) {
	a := testutil.NewLead("Ann", models.StatusLeads)
	b := testutil.NewLead("Bob", models.StatusLeads)
	f := newAPI(t, a, b)
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "POST", "/api/v1/selection/toggle", auth,
		models.ToggleSelectionRequest{LeadID: a.ID.String(), Selected: true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, "POST", "/api/v1/selection/enter", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, "POST", "/api/v1/selection/toggle", auth,
		models.ToggleSelectionRequest{LeadID: a.ID.String(), Selected: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, "POST", "/api/v1/selection/delete", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.BulkDeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Deleted)

	assert.Len(t, f.store.Deleted(), 1)
	assert.Len(t, f.store.StoredLeads(), 1)

	w = f.do(t, "GET", "/api/v1/trash", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trash models.TrashResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trash))
	require.Len(t, trash.Items, 1)
	assert.Equal(t, a.ID.String(), trash.Items[0].LeadID)

	w = f.do(t, "POST", "/api/v1/trash/"+trash.Items[0].ID+"/restore", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, f.store.StoredLeads(), 2)
}

func TestAPI_ProductionCannotCreateLeads(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, "POST", "/api/v1/leads", bearer(t, uuid.New(), models.RoleProduction),
		models.CreateLeadRequest{CustomerName: "Ann", Phone: "555"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPI_CreateLeadValidation(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, uuid.New(), models.RoleSales)

	w := f.do(t, "POST", "/api/v1/leads", auth, models.CreateLeadRequest{Phone: "555"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/api/v1/leads", auth, models.CreateLeadRequest{CustomerName: "Ann", Phone: "555"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, f.store.StoredLeads(), 1)
}

func TestAPI_PhotosWithoutStorage(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusLeads)
	f := newAPI(t, lead)

	w := f.do(t, "GET", "/api/v1/leads/"+lead.ID.String()+"/photos", bearer(t, uuid.New(), models.RoleSales), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
