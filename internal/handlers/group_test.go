package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meetup-service/internal/mocks"
	"meetup-service/internal/models"
	"meetup-service/internal/repositories"
)

func setupGroupRouter(handler *GroupHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/groups", handler.CreateGroup)
	r.GET("/groups/:groupId", handler.GetGroup)
	r.PUT("/groups/:groupId", handler.UpdateGroup)
	r.DELETE("/groups/:groupId", handler.DeleteGroup)
	r.POST("/groups/:groupId/images", handler.AddGroupImage)
	return r
}

const validGroupBody = `{"name":"Chess club","about":"Weekly over-the-board games for players of all strengths.","type":"In person","private":false,"city":"Portland","state":"OR"}`

func TestCreateGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler, 1)

	groupRepo.On("CreateGroup", mock.Anything, mock.MatchedBy(func(g models.Group) bool {
		return g.OrganizerID == 1 && g.Name == "Chess club" && !g.Private
	})).Return(models.Group{ID: 9, OrganizerID: 1, Name: "Chess club"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(validGroupBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateGroupValidation(t *testing.T) {
	handler := NewGroupHandler(new(mocks.GroupRepositoryMock), nil)
	router := setupGroupRouter(handler, 1)

	body := `{"name":"","about":"too short","type":"Hybrid","city":"","state":""}`
	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	require.Equal(t, "Validation Error", resp["message"])
	errs := resp["errors"].(map[string]any)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "about")
	require.Contains(t, errs, "type")
	require.Contains(t, errs, "private")
	require.Contains(t, errs, "city")
	require.Contains(t, errs, "state")
}

func TestUpdateGroupForbiddenForNonOrganizer(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler, 4)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/groups/9", bytes.NewBufferString(validGroupBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertNotCalled(t, "UpdateGroup", mock.Anything, mock.Anything)
}

func TestDeleteGroupByOrganizer(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	groupRepo.On("DeleteGroup", mock.Anything, 9).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/groups/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Successfully deleted", decodeBody(t, rec)["message"])
	groupRepo.AssertExpectations(t)
}

func TestGetGroupNotFound(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler, 0)

	groupRepo.On("GetGroupDetail", mock.Anything, 404).Return(nil, repositories.ErrGroupNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Group couldn't be found", decodeBody(t, rec)["message"])
}

func TestAddGroupImageOrganizerOnly(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	groupRepo.On("AddImage", mock.Anything, 9, "https://example.com/a.png", true).
		Return(models.GroupImage{ID: 1, GroupID: 9, URL: "https://example.com/a.png", Preview: true}, nil).Once()

	body := bytes.NewBufferString(`{"url":"https://example.com/a.png","preview":true}`)
	req := httptest.NewRequest(http.MethodPost, "/groups/9/images", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	require.Equal(t, float64(1), resp["id"])
	require.Equal(t, true, resp["preview"])
	groupRepo.AssertExpectations(t)
}
