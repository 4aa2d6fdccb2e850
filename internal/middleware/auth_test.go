package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecommerce-service/internal/mocks"
	"ecommerce-service/models"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func adminRouter(mockDB *mocks.MockDatabase) *mux.Router {
	r := mux.NewRouter()
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(AdminOnly(mockDB))
	admin.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

func TestAdminOnly_NoID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := adminRouter(mocks.NewMockDatabase(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	mockDB.EXPECT().GetUser(gomock.Any(), "ghost").Return(nil, mongo.ErrNoDocuments)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats?id=ghost", nil)
	w := httptest.NewRecorder()
	adminRouter(mockDB).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOnly_NotAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	mockDB.EXPECT().GetUser(gomock.Any(), "u1").
		Return(&models.User{ID: "u1", Role: models.RoleUser}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats?id=u1", nil)
	w := httptest.NewRecorder()
	adminRouter(mockDB).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnly_Admin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	mockDB.EXPECT().GetUser(gomock.Any(), "boss").
		Return(&models.User{ID: "boss", Role: models.RoleAdmin}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats?id=boss", nil)
	w := httptest.NewRecorder()
	adminRouter(mockDB).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAdminOnly_DBError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDatabase(ctrl)
	mockDB.EXPECT().GetUser(gomock.Any(), "u1").Return(nil, errors.New("соединение потеряно"))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats?id=u1", nil)
	w := httptest.NewRecorder()
	adminRouter(mockDB).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
