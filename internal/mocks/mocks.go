package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"meetup-service/internal/models"
	"meetup-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, firstName, lastName, username, email, hashedPassword string) (models.User, error) {
	args := m.Called(ctx, firstName, lastName, username, email, hashedPassword)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByCredential(ctx context.Context, credential string) (models.User, error) {
	args := m.Called(ctx, credential)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, group models.Group) (models.Group, error) {
	args := m.Called(ctx, group)
	var created models.Group
	if val := args.Get(0); val != nil {
		created = val.(models.Group)
	}
	return created, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroups(ctx context.Context) ([]models.GroupSummary, error) {
	args := m.Called(ctx)
	var groups []models.GroupSummary
	if val := args.Get(0); val != nil {
		groups = val.([]models.GroupSummary)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroupsByOrganizer(ctx context.Context, organizerID int) ([]models.GroupSummary, error) {
	args := m.Called(ctx, organizerID)
	var groups []models.GroupSummary
	if val := args.Get(0); val != nil {
		groups = val.([]models.GroupSummary)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroupDetail(ctx context.Context, groupID int) (models.GroupDetail, error) {
	args := m.Called(ctx, groupID)
	var detail models.GroupDetail
	if val := args.Get(0); val != nil {
		detail = val.(models.GroupDetail)
	}
	return detail, args.Error(1)
}

func (m *GroupRepositoryMock) UpdateGroup(ctx context.Context, group models.Group) (models.Group, error) {
	args := m.Called(ctx, group)
	var updated models.Group
	if val := args.Get(0); val != nil {
		updated = val.(models.Group)
	}
	return updated, args.Error(1)
}

func (m *GroupRepositoryMock) DeleteGroup(ctx context.Context, groupID int) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) AddImage(ctx context.Context, groupID int, url string, preview bool) (models.GroupImage, error) {
	args := m.Called(ctx, groupID, url, preview)
	var image models.GroupImage
	if val := args.Get(0); val != nil {
		image = val.(models.GroupImage)
	}
	return image, args.Error(1)
}

type MembershipRepositoryMock struct {
	mock.Mock
}

func (m *MembershipRepositoryMock) GetMembership(ctx context.Context, groupID, userID int) (models.Membership, error) {
	args := m.Called(ctx, groupID, userID)
	var membership models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(models.Membership)
	}
	return membership, args.Error(1)
}

func (m *MembershipRepositoryMock) RequestMembership(ctx context.Context, groupID, userID int) (models.Membership, error) {
	args := m.Called(ctx, groupID, userID)
	var membership models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(models.Membership)
	}
	return membership, args.Error(1)
}

func (m *MembershipRepositoryMock) UpdateStatusFrom(ctx context.Context, groupID, userID int, from, to models.MembershipStatus) (models.Membership, error) {
	args := m.Called(ctx, groupID, userID, from, to)
	var membership models.Membership
	if val := args.Get(0); val != nil {
		membership = val.(models.Membership)
	}
	return membership, args.Error(1)
}

func (m *MembershipRepositoryMock) DeleteMembership(ctx context.Context, groupID, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MembershipRepositoryMock) ListMembers(ctx context.Context, groupID int, includePending bool) ([]models.Member, error) {
	args := m.Called(ctx, groupID, includePending)
	var members []models.Member
	if val := args.Get(0); val != nil {
		members = val.([]models.Member)
	}
	return members, args.Error(1)
}

type VenueRepositoryMock struct {
	mock.Mock
}

func (m *VenueRepositoryMock) CreateVenue(ctx context.Context, venue models.Venue) (models.Venue, error) {
	args := m.Called(ctx, venue)
	var created models.Venue
	if val := args.Get(0); val != nil {
		created = val.(models.Venue)
	}
	return created, args.Error(1)
}

func (m *VenueRepositoryMock) GetVenue(ctx context.Context, venueID int) (models.Venue, error) {
	args := m.Called(ctx, venueID)
	var venue models.Venue
	if val := args.Get(0); val != nil {
		venue = val.(models.Venue)
	}
	return venue, args.Error(1)
}

func (m *VenueRepositoryMock) ListVenues(ctx context.Context, groupID int) ([]models.Venue, error) {
	args := m.Called(ctx, groupID)
	var venues []models.Venue
	if val := args.Get(0); val != nil {
		venues = val.([]models.Venue)
	}
	return venues, args.Error(1)
}

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	var created models.Event
	if val := args.Get(0); val != nil {
		created = val.(models.Event)
	}
	return created, args.Error(1)
}

func (m *EventRepositoryMock) ListGroupEvents(ctx context.Context, groupID int) ([]models.EventSummary, error) {
	args := m.Called(ctx, groupID)
	var events []models.EventSummary
	if val := args.Get(0); val != nil {
		events = val.([]models.EventSummary)
	}
	return events, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.MembershipRepository = (*MembershipRepositoryMock)(nil)
var _ repositories.VenueRepository = (*VenueRepositoryMock)(nil)
var _ repositories.EventRepository = (*EventRepositoryMock)(nil)
