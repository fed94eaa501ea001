package handlers

import (
	"context"
	"net/http"

	"greenpulse"
	"greenpulse/internal/eventbus"
	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpErr  error
	signInTok  string
	signInErr  error
	signOutErr error
	parseEmail string
	parseErr   error
	current    *greenpulse.User
	currentErr error

	lastSignUpName  string
	lastSignUpEmail string
	lastSignInEmail string
	lastParseToken  string
	signOutCalls    int
}

func (m *mockAuth) SignUp(ctx context.Context, name, email, password string) error {
	m.lastSignUpName = name
	m.lastSignUpEmail = email
	return m.signUpErr
}
func (m *mockAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	m.lastSignInEmail = email
	return m.signInTok, m.signInErr
}
func (m *mockAuth) SignOut(ctx context.Context) error {
	m.signOutCalls++
	return m.signOutErr
}
func (m *mockAuth) ParseToken(accessToken string) (string, error) {
	m.lastParseToken = accessToken
	return m.parseEmail, m.parseErr
}
func (m *mockAuth) Current(ctx context.Context) (*greenpulse.User, error) {
	return m.current, m.currentErr
}

type mockProfile struct {
	user *greenpulse.User
	err  error

	lastEmail  string
	lastParams service.ProfileParams
	lastPhoto  string
}

func (m *mockProfile) Get(ctx context.Context, email string) (*greenpulse.User, error) {
	m.lastEmail = email
	if m.user == nil && m.err == nil {
		return nil, service.ErrAccountNotFound
	}
	return m.user, m.err
}
func (m *mockProfile) Update(ctx context.Context, email string, p service.ProfileParams) (*greenpulse.User, error) {
	m.lastEmail = email
	m.lastParams = p
	return m.user, m.err
}
func (m *mockProfile) UpdatePhoto(ctx context.Context, email, photo string) (*greenpulse.User, error) {
	m.lastEmail = email
	m.lastPhoto = photo
	return m.user, m.err
}

type mockPlants struct {
	plants    []greenpulse.Plant
	active    *greenpulse.Plant
	added     *greenpulse.Plant
	pump      string
	err       error
	upsertRet greenpulse.Plant

	lastEmail    string
	lastActiveID string
	lastPlantID  string
	lastPump     string
	lastUpsert   greenpulse.Plant
	lastAdd      service.PlantParams
}

func (m *mockPlants) Upsert(ctx context.Context, email string, p greenpulse.Plant) (greenpulse.Plant, error) {
	m.lastEmail = email
	m.lastUpsert = p
	return m.upsertRet, m.err
}
func (m *mockPlants) List(ctx context.Context, email string) ([]greenpulse.Plant, error) {
	m.lastEmail = email
	return m.plants, m.err
}
func (m *mockPlants) Active(ctx context.Context, email string) (*greenpulse.Plant, error) {
	m.lastEmail = email
	return m.active, m.err
}
func (m *mockPlants) SetActive(ctx context.Context, email, id string) error {
	m.lastEmail = email
	m.lastActiveID = id
	return m.err
}
func (m *mockPlants) AddEmbedded(ctx context.Context, email string, p service.PlantParams) (*greenpulse.Plant, error) {
	m.lastEmail = email
	m.lastAdd = p
	return m.added, m.err
}
func (m *mockPlants) PumpStatus(ctx context.Context, email, plantID string) (string, error) {
	m.lastEmail = email
	m.lastPlantID = plantID
	return m.pump, m.err
}
func (m *mockPlants) SetPumpStatus(ctx context.Context, email, plantID, status string) error {
	m.lastEmail = email
	m.lastPlantID = plantID
	m.lastPump = status
	return m.err
}

type mockHistory struct {
	entry   *greenpulse.HistoryEntry
	entries []greenpulse.HistoryEntry
	summary *greenpulse.Summary
	err     error

	lastEmail   string
	lastLimit   int
	lastEntryID string
	lastInput   service.SensorInput
	lastPred    service.Prediction
}

func (m *mockHistory) Append(ctx context.Context, email string, in service.SensorInput, pred service.Prediction) (*greenpulse.HistoryEntry, error) {
	m.lastEmail = email
	m.lastInput = in
	m.lastPred = pred
	return m.entry, m.err
}
func (m *mockHistory) Recent(ctx context.Context, email string, n int) ([]greenpulse.HistoryEntry, error) {
	m.lastEmail = email
	m.lastLimit = n
	return m.entries, m.err
}
func (m *mockHistory) MarkWatered(ctx context.Context, email, entryID string) error {
	m.lastEmail = email
	m.lastEntryID = entryID
	return m.err
}
func (m *mockHistory) Summary(ctx context.Context, email string) (*greenpulse.Summary, error) {
	m.lastEmail = email
	return m.summary, m.err
}

type mockTelemetry struct {
	current *greenpulse.TelemetryRecord
	last    *greenpulse.TelemetryRecord
	err     error

	lastEmail   string
	lastPlantID string
	lastSnap    greenpulse.SensorSnapshot
	runCalls    int
}

func (m *mockTelemetry) IngestSensor(ctx context.Context, email, plantID string, s greenpulse.SensorSnapshot) error {
	m.lastEmail = email
	m.lastPlantID = plantID
	m.lastSnap = s
	return m.err
}
func (m *mockTelemetry) Refresh(ctx context.Context) error { return m.err }
func (m *mockTelemetry) Run(ctx context.Context)           { m.runCalls++ }
func (m *mockTelemetry) Current(ctx context.Context, email string) (*greenpulse.TelemetryRecord, error) {
	m.lastEmail = email
	return m.current, m.err
}
func (m *mockTelemetry) Last(ctx context.Context) (*greenpulse.TelemetryRecord, error) {
	return m.last, m.err
}

type mockNotifications struct {
	rows []greenpulse.NotificationRow
	err  error

	lastEmail string
}

func (m *mockNotifications) Rows(ctx context.Context, email string) ([]greenpulse.NotificationRow, error) {
	m.lastEmail = email
	return m.rows, m.err
}

type mockSearch struct {
	keyword string
	err     error

	lastSaved string
}

func (m *mockSearch) SaveKeyword(ctx context.Context, keyword string) error {
	m.lastSaved = keyword
	return m.err
}
func (m *mockSearch) LastKeyword(ctx context.Context) (string, error) {
	return m.keyword, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, eventbus.New())
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
