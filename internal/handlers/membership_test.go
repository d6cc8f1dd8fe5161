package handlers

import (
	"bytes"
	"encoding/json"
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

func setupMembershipRouter(handler *MembershipHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/groups/:groupId/membership", handler.RequestMembership)
	r.PUT("/groups/:groupId/membership", handler.ChangeMembershipStatus)
	r.DELETE("/groups/:groupId/membership", handler.DeleteMembership)
	r.GET("/groups/:groupId/members", handler.ListMembers)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestMembershipCreatesPending(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 1)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 1).Return(nil, repositories.ErrMembershipNotFound).Once()
	membershipRepo.On("RequestMembership", mock.Anything, 9, 1).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 1, Status: models.StatusPending}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/9/membership", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["memberId"])
	require.Equal(t, "pending", body["status"])
	membershipRepo.AssertExpectations(t)
}

func TestRequestMembershipAlreadyPending(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMembershipRouter(handler, 1)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 1).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 1, Status: models.StatusPending}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/9/membership", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Membership has already been requested", decodeBody(t, rec)["message"])
	membershipRepo.AssertNotCalled(t, "RequestMembership", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestMembershipAlreadyMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMembershipRouter(handler, 1)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 1).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 1, Status: models.StatusMember}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/9/membership", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User is already a member of the group", decodeBody(t, rec)["message"])
}

func TestRequestMembershipGroupMissing(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewMembershipHandler(groupRepo, new(mocks.MembershipRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupMembershipRouter(handler, 1)

	groupRepo.On("GetGroup", mock.Anything, 404).Return(nil, repositories.ErrGroupNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/404/membership", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestMembershipLosesCreationRace(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMembershipRouter(handler, 1)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 1).Return(nil, repositories.ErrMembershipNotFound).Once()
	membershipRepo.On("RequestMembership", mock.Anything, 9, 1).Return(nil, repositories.ErrMembershipExists).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/9/membership", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Membership has already been requested", decodeBody(t, rec)["message"])
}

func TestOrganizerPromotesPendingToMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 3).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusPending}, nil).Once()
	membershipRepo.On("UpdateStatusFrom", mock.Anything, 9, 3, models.StatusPending, models.StatusMember).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusMember}, nil).Once()

	body := bytes.NewBufferString(`{"status":"member","memberId":3}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	require.Equal(t, float64(5), resp["id"])
	require.Equal(t, float64(9), resp["groupId"])
	require.Equal(t, float64(3), resp["memberId"])
	require.Equal(t, "member", resp["status"])
	membershipRepo.AssertExpectations(t)
}

func TestCoHostPromotesPendingToMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 4)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 3).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusPending}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 4).
		Return(models.Membership{ID: 6, GroupID: 9, UserID: 4, Status: models.StatusCoHost}, nil).Once()
	membershipRepo.On("UpdateStatusFrom", mock.Anything, 9, 3, models.StatusPending, models.StatusMember).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusMember}, nil).Once()

	body := bytes.NewBufferString(`{"status":"member","memberId":3}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	membershipRepo.AssertExpectations(t)
}

func TestMemberCannotPromoteToCoHost(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 4)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 3).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusMember}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 4).
		Return(models.Membership{ID: 6, GroupID: 9, UserID: 4, Status: models.StatusMember}, nil).Once()

	body := bytes.NewBufferString(`{"status":"co-host","memberId":3}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	membershipRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCoHostCannotPromoteToCoHost(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 4)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 3).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusMember}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 4).
		Return(models.Membership{ID: 6, GroupID: 9, UserID: 4, Status: models.StatusCoHost}, nil).Once()

	body := bytes.NewBufferString(`{"status":"co-host","memberId":3}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTransitionToPendingAlwaysRejected(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 3).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusMember}, nil).Once()

	body := bytes.NewBufferString(`{"status":"pending","memberId":3}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	require.Equal(t, "Validation Error", resp["message"])
	errs := resp["errors"].(map[string]any)
	require.Equal(t, "Cannot change a membership status to pending", errs["status"])
	membershipRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusUnknownMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, new(mocks.MembershipRepositoryMock), userRepo, nil)
	router := setupMembershipRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 99).Return(nil, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"status":"member","memberId":99}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	errs := resp["errors"].(map[string]any)
	require.Equal(t, "User couldn't be found", errs["memberId"])
}

func TestChangeStatusConcurrentModification(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("GetMembership", mock.Anything, 9, 3).
		Return(models.Membership{ID: 5, GroupID: 9, UserID: 3, Status: models.StatusPending}, nil).Once()
	membershipRepo.On("UpdateStatusFrom", mock.Anything, 9, 3, models.StatusPending, models.StatusMember).
		Return(nil, repositories.ErrStatusConflict).Once()

	body := bytes.NewBufferString(`{"status":"member","memberId":3}`)
	req := httptest.NewRequest(http.MethodPut, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberDeletesOwnMembership(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 3)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("DeleteMembership", mock.Anything, 9, 3).Return(nil).Once()

	body := bytes.NewBufferString(`{"memberId":3}`)
	req := httptest.NewRequest(http.MethodDelete, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Successfully deleted membership from group", decodeBody(t, rec)["message"])
	membershipRepo.AssertExpectations(t)
}

func TestThirdPartyCannotDeleteMembership(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 4)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()

	body := bytes.NewBufferString(`{"memberId":3}`)
	req := httptest.NewRequest(http.MethodDelete, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	membershipRepo.AssertNotCalled(t, "DeleteMembership", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteMembershipMissingRow(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, userRepo, nil)
	router := setupMembershipRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	membershipRepo.On("DeleteMembership", mock.Anything, 9, 3).Return(repositories.ErrMembershipNotFound).Once()

	body := bytes.NewBufferString(`{"memberId":3}`)
	req := httptest.NewRequest(http.MethodDelete, "/groups/9/membership", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMembersFiltersPendingForOutsiders(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMembershipRouter(handler, 0)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	membershipRepo.On("ListMembers", mock.Anything, 9, false).
		Return([]models.Member{{ID: 3, FirstName: "Ada", LastName: "Lovelace", Status: models.StatusMember}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/9/members", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	members := resp["Members"].([]any)
	require.Len(t, members, 1)
	require.Equal(t, "member", members[0].(map[string]any)["status"])
	membershipRepo.AssertExpectations(t)
}

func TestListMembersIncludesPendingForOrganizer(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	handler := NewMembershipHandler(groupRepo, membershipRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMembershipRouter(handler, 2)

	groupRepo.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9, OrganizerID: 2}, nil).Once()
	membershipRepo.On("ListMembers", mock.Anything, 9, true).
		Return([]models.Member{
			{ID: 3, FirstName: "Ada", LastName: "Lovelace", Status: models.StatusMember},
			{ID: 5, FirstName: "Alan", LastName: "Turing", Status: models.StatusPending},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/9/members", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	members := decodeBody(t, rec)["Members"].([]any)
	require.Len(t, members, 2)
	membershipRepo.AssertExpectations(t)
}
