package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/auth"
	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/pkg/jwt"
)

type memUserRepo struct{ users map[string]*entity.User }

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: make(map[string]*entity.User)} }

func (r *memUserRepo) Create(u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func testUC(repo *memUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: "secreto-de-test", ExpMinutes: 60, Issuer: "medarrival-test"})
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_HasheaPassword(t *testing.T) {
	repo := newMemUserRepo()
	uc := testUC(repo)

	resp, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, resp.Role, "rol por defecto")

	stored, _ := repo.FindByEmail("ana@medarrival.local")
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3creta", stored.PasswordHash, "la password nunca se guarda en claro")
	assert.Equal(t, "active", stored.Status)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := testUC(newMemUserRepo())

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local", Password: "x"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local", Password: "y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterUser_CamposObligatorios(t *testing.T) {
	uc := testUC(newMemUserRepo())

	_, err := uc.RegisterUser(dto.RegisterRequest{Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenValido(t *testing.T) {
	repo := newMemUserRepo()
	uc := testUC(repo)

	created, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local", Password: "s3creta", Role: entity.RoleAdmin})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@medarrival.local", Password: "s3creta"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, role, err := jwt.Parse("secreto-de-test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc := testUC(newMemUserRepo())

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local", Password: "s3creta"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@medarrival.local", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := testUC(newMemUserRepo())
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@medarrival.local", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioSuspendido(t *testing.T) {
	repo := newMemUserRepo()
	uc := testUC(repo)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@medarrival.local", Password: "s3creta"})
	require.NoError(t, err)
	stored, _ := repo.FindByEmail("ana@medarrival.local")
	stored.Status = "suspended"

	_, err = uc.Login(dto.LoginRequest{Email: "ana@medarrival.local", Password: "s3creta"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
