package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"laburo/internal/adapter/api"
	"laburo/internal/adapter/api/handler"
	"laburo/internal/adapter/api/middleware"
	"laburo/internal/adapter/repository"
	"laburo/internal/infrastructure/auth"
	"laburo/internal/infrastructure/docstore"
	"laburo/internal/infrastructure/ratelimit"
	"laburo/internal/usecase"
	"laburo/pkg/logger"
)

const password = "correct-horse"

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t    *testing.T
	e    *echo.Echo
	auth *usecase.AuthUseCase
}

func generousPolicies() map[string]ratelimit.Policy {
	return map[string]ratelimit.Policy{
		ratelimit.ActionLogin:        {Burst: 100, Every: time.Millisecond},
		ratelimit.ActionRegister:     {Burst: 100, Every: time.Millisecond},
		ratelimit.ActionTopUpRequest: {Burst: 100, Every: time.Millisecond},
	}
}

func newTestServer(t *testing.T, policies map[string]ratelimit.Policy) *testServer {
	t.Helper()
	ctx := context.Background()

	backend, err := docstore.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	registry := repository.NewRegistry(docstore.New(backend, docstore.Options{}))
	require.NoError(t, registry.Init(ctx))

	userRepo := repository.NewDocstoreUsuarioRepository(registry)
	trabajoRepo := repository.NewDocstoreTrabajoRepository(registry)
	saldoRepo := repository.NewDocstoreSaldoRepository(registry)
	cargaRepo := repository.NewDocstoreCargaRepository(registry)
	calificacionRepo := repository.NewDocstoreCalificacionRepository(registry)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewJWTIssuer("router-test-secret", time.Hour)

	authUseCase := usecase.NewAuthUseCase(userRepo, hasher, tokens)
	handler.Setup(
		authUseCase,
		usecase.NewUserUseCase(userRepo, hasher),
		usecase.NewJobUseCase(trabajoRepo, userRepo),
		usecase.NewBalanceUseCase(saldoRepo, cargaRepo, userRepo),
		usecase.NewRatingUseCase(calificacionRepo, trabajoRepo),
	)
	handler.SetupHealthHandler(registry, "file")

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e,
		middleware.NewAuthMiddleware(tokens),
		middleware.NewAdminMiddleware(userRepo),
		middleware.NewRateLimitMiddleware(ratelimit.NewRateLimiter(policies)),
	)

	return &testServer{t: t, e: e, auth: authUseCase}
}

func (ts *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID     string `json:"id"`
		Correo string `json:"correo"`
		Rol    string `json:"rol"`
	} `json:"user"`
}

func (ts *testServer) register(email, rol string) session {
	ts.t.Helper()
	rec, env := ts.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"nombre":   "Test",
		"apellido": "User",
		"correo":   email,
		"password": password,
		"rol":      rol,
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[session](ts.t, env.Data)
}

func (ts *testServer) login(email string) session {
	ts.t.Helper()
	rec, env := ts.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"correo":   email,
		"password": password,
	})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[session](ts.t, env.Data)
}

func (ts *testServer) admin() session {
	ts.t.Helper()
	_, err := ts.auth.EnsureAdmin(context.Background(), "admin@laburo.test", password)
	require.NoError(ts.t, err)
	return ts.login("admin@laburo.test")
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, generousPolicies())

	rec, _ := ts.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := map[string]string{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["storage"])
	assert.Equal(t, "file", body["backend"])
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t, generousPolicies())

	registered := ts.register("Ana@Laburo.test", "contratante")
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ana@laburo.test", registered.User.Correo)
	assert.Equal(t, "contratante", registered.User.Rol)

	rec, _ := ts.do(http.MethodGet, "/v1/users/me", registered.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hashContrasena")

	loggedIn := ts.login("ana@laburo.test")
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	rec, env := ts.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"correo": "ana@laburo.test", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec, env = ts.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"nombre": "Ana", "apellido": "Two", "correo": "ana@laburo.test", "password": password, "rol": "prestador",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, generousPolicies())

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{
			name:    "missing role",
			body:    map[string]string{"nombre": "A", "apellido": "B", "correo": "a@laburo.test", "password": password},
			message: "rol is required",
		},
		{
			name:    "admin role",
			body:    map[string]string{"nombre": "A", "apellido": "B", "correo": "a@laburo.test", "password": password, "rol": "admin"},
			message: "rol must be one of: contratante prestador ambos",
		},
		{
			name:    "short password",
			body:    map[string]string{"nombre": "A", "apellido": "B", "correo": "a@laburo.test", "password": "short", "rol": "prestador"},
			message: "password must be at least 8",
		},
		{
			name:    "bad email",
			body:    map[string]string{"nombre": "A", "apellido": "B", "correo": "not-an-email", "password": password, "rol": "prestador"},
			message: "correo must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(http.MethodPost, "/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, generousPolicies())

	rec, _ := ts.do(http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(http.MethodPost, "/v1/jobs", "", map[string]interface{}{"titulo": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/jobs", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "job board is public")
}

func TestAdminRoutesCheckStoredRole(t *testing.T) {
	ts := newTestServer(t, generousPolicies())
	user := ts.register("eva@laburo.test", "prestador")
	admin := ts.admin()

	rec, env := ts.do(http.MethodGet, "/v1/admin/users", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/admin/wallet/statistics", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/admin/users?rol=prestador", admin.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// promotion takes effect on the existing token
	rec, _ = ts.do(http.MethodPatch, "/v1/admin/users/"+user.User.ID+"/role", admin.Token, map[string]string{"rol": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = ts.do(http.MethodGet, "/v1/admin/users", user.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, generousPolicies())
	contractor := ts.register("ana@laburo.test", "contratante")
	provider := ts.register("pedro@laburo.test", "prestador")

	rec, env := ts.do(http.MethodPost, "/v1/jobs", contractor.Token, map[string]interface{}{
		"titulo":           "Pintar living",
		"categoria":        "pintura",
		"descripcion":      "Dos manos de latex blanco",
		"precioOfrecido":   15000,
		"ubicacionTexto":   "Palermo, CABA",
		"fechaHoraDeseada": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decode[map[string]interface{}](t, env.Data)
	jobID := job["id"].(string)
	assert.Equal(t, "publicado", job["estado"])

	rec, _ = ts.do(http.MethodPost, "/v1/jobs/"+jobID+"/accept", contractor.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	steps := []struct {
		action string
		token  string
		estado string
	}{
		{"accept", provider.Token, "en_proceso"},
		{"complete", provider.Token, "completado_pendiente_confirmacion"},
		{"confirm", contractor.Token, "finalizado"},
	}
	for _, step := range steps {
		rec, env = ts.do(http.MethodPost, "/v1/jobs/"+jobID+"/"+step.action, step.token, nil)
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", step.action, rec.Body.String())
		assert.Equal(t, step.estado, decode[map[string]interface{}](t, env.Data)["estado"])
	}

	rec, _ = ts.do(http.MethodPost, "/v1/jobs/"+jobID+"/cancel", contractor.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rating := map[string]interface{}{"prestadorId": provider.User.ID, "puntuacion": 5, "comentario": "Impecable"}
	rec, _ = ts.do(http.MethodPost, "/v1/jobs/"+jobID+"/rating", contractor.Token, rating)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = ts.do(http.MethodPost, "/v1/jobs/"+jobID+"/rating", contractor.Token, rating)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = ts.do(http.MethodGet, "/v1/providers/"+provider.User.ID+"/ratings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ratings := decode[struct {
		Summary struct {
			Promedio *float64 `json:"promedio"`
			Total    int64    `json:"total"`
		} `json:"summary"`
		Ratings struct {
			Total int64 `json:"total"`
		} `json:"ratings"`
	}](t, env.Data)
	require.NotNil(t, ratings.Summary.Promedio)
	assert.Equal(t, 5.0, *ratings.Summary.Promedio)
	assert.EqualValues(t, 1, ratings.Summary.Total)
	assert.EqualValues(t, 1, ratings.Ratings.Total)

	rec, env = ts.do(http.MethodGet, "/v1/jobs?estado=finalizado", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]interface{}](t, env.Data)["total"])
}

func TestTopUpReviewOverHTTP(t *testing.T) {
	ts := newTestServer(t, generousPolicies())
	provider := ts.register("pedro@laburo.test", "prestador")
	admin := ts.admin()

	rec, env := ts.do(http.MethodPost, "/v1/wallet/topup", provider.Token, map[string]interface{}{
		"monto":          50000,
		"comprobanteUrl": "https://cdn.laburo.test/receipt.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cargaID := decode[map[string]interface{}](t, env.Data)["id"].(string)

	rec, _ = ts.do(http.MethodPost, "/v1/wallet/topup", provider.Token, map[string]interface{}{"monto": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = ts.do(http.MethodGet, "/v1/admin/wallet/pending-topups", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]interface{}](t, env.Data)["total"])

	review := map[string]string{"decision": "aprobado", "notas": "ok"}
	rec, _ = ts.do(http.MethodPost, "/v1/admin/wallet/topup/"+cargaID+"/review", provider.Token, review)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = ts.do(http.MethodPost, "/v1/admin/wallet/topup/"+cargaID+"/review", admin.Token, review)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "aprobado", decode[map[string]interface{}](t, env.Data)["estado"])

	rec, _ = ts.do(http.MethodPost, "/v1/admin/wallet/topup/"+cargaID+"/review", admin.Token, review)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = ts.do(http.MethodGet, "/v1/admin/wallet/topup/"+cargaID, admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, admin.User.ID, decode[map[string]interface{}](t, env.Data)["adminId"])

	rec, env = ts.do(http.MethodGet, "/v1/wallet", provider.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50000.0, decode[map[string]interface{}](t, env.Data)["monto"])
}

func TestLoginIsRateLimited(t *testing.T) {
	policies := generousPolicies()
	policies[ratelimit.ActionLogin] = ratelimit.Policy{Burst: 2, Every: time.Hour}
	ts := newTestServer(t, policies)
	ts.register("ana@laburo.test", "contratante")

	ts.login("ana@laburo.test")
	ts.login("ana@laburo.test")

	rec, env := ts.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"correo": "ana@laburo.test", "password": password})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
