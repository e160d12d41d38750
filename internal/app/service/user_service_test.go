package service

import (
	"context"
	"database/sql"
	"testing"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_AddStudentDefaultsPasswordToEnrollment(t *testing.T) {
	var created *model.User
	users := &repotest.FakeUserRepository{
		CreateFunc: func(ctx context.Context, tx *sql.Tx, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(users, &repotest.FakeMentorRepository{}, discardLogger())

	student, err := svc.AddStudent(context.Background(), AddStudentRequest{
		Email: "s@uni.edu", FullName: "Sam", EnrollmentNumber: "EN2024001",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, student.Role)
	require.NotNil(t, student.EnrollmentNumber)
	assert.Equal(t, "EN2024001", *student.EnrollmentNumber)

	ok, _ := security.CheckPasswordHash("EN2024001", created.PasswordHash)
	assert.True(t, ok)
}

func TestUserService_AddStudentRequiresFields(t *testing.T) {
	users := &repotest.FakeUserRepository{}
	svc := NewUserService(users, &repotest.FakeMentorRepository{}, discardLogger())

	_, err := svc.AddStudent(context.Background(), AddStudentRequest{Email: "s@uni.edu", FullName: "Sam"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, users.Called("Create"))
}

func TestUserService_AddMentorCreatesProfile(t *testing.T) {
	var gotProfile *model.MentorProfile
	mentors := &repotest.FakeMentorRepository{
		CreateFunc: func(ctx context.Context, user *model.User, profile *model.MentorProfile) error {
			assert.Equal(t, model.RoleMentor, user.Role)
			profile.UserID = user.ID
			gotProfile = profile
			return nil
		},
	}
	svc := NewUserService(&repotest.FakeUserRepository{}, mentors, discardLogger())

	m, err := svc.AddMentor(context.Background(), AddMentorRequest{
		Email: "m@corp.io", FullName: "Mo", Password: "pw", Company: "Acme", IFSCCode: "IFSC1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", m.Profile.Company)
	assert.Equal(t, m.ID, gotProfile.UserID)
	assert.Empty(t, m.PasswordHash)
}

func TestUserService_DeleteStudentCascades(t *testing.T) {
	users := &repotest.FakeUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleStudent}, nil
		},
	}
	svc := NewUserService(users, &repotest.FakeMentorRepository{}, discardLogger())

	require.NoError(t, svc.DeleteStudent(context.Background(), "s-1"))
	assert.Equal(t, []string{"FindByID", "DeleteCascade"}, users.Trace())
}

func TestUserService_DeleteMentorRejectsOtherRoles(t *testing.T) {
	users := &repotest.FakeUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleAdmin}, nil
		},
	}
	svc := NewUserService(users, &repotest.FakeMentorRepository{}, discardLogger())

	err := svc.DeleteMentor(context.Background(), "a-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, users.Called("DeleteCascade"))
}

func TestUserService_DeleteRequiresID(t *testing.T) {
	users := &repotest.FakeUserRepository{}
	svc := NewUserService(users, &repotest.FakeMentorRepository{}, discardLogger())

	assert.ErrorIs(t, svc.DeleteStudent(context.Background(), ""), common.ErrValidation)
	assert.Empty(t, users.Trace())
}

func TestUserService_ListUsersValidatesRole(t *testing.T) {
	users := &repotest.FakeUserRepository{
		ListFunc: func(ctx context.Context, role string) ([]model.User, error) {
			assert.Equal(t, model.RoleJudge, role)
			return []model.User{{ID: "j-1", Role: model.RoleJudge}}, nil
		},
	}
	svc := NewUserService(users, &repotest.FakeMentorRepository{}, discardLogger())

	_, err := svc.ListUsers(context.Background(), "wizard")
	assert.ErrorIs(t, err, common.ErrValidation)

	list, err := svc.ListUsers(context.Background(), model.RoleJudge)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserService_ListMentorsRedactsBankingForNonAdmins(t *testing.T) {
	mentors := &repotest.FakeMentorRepository{
		ListFunc: func(ctx context.Context) ([]model.Mentor, error) {
			return []model.Mentor{
				{User: model.User{ID: "m-1"}, Profile: &model.MentorProfile{
					UserID: "m-1", Company: "Acme", BankName: "SBI", AccountNumber: "0001", IFSCCode: "SBIN0001", Branch: "Main",
				}},
				{User: model.User{ID: "m-2"}},
			}, nil
		},
	}
	svc := NewUserService(&repotest.FakeUserRepository{}, mentors, discardLogger())

	got, err := svc.ListMentors(context.Background(), security.Claims{UserID: "s-1", Role: model.RoleStudent})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.MentorProfile{UserID: "m-1", Company: "Acme"}, *got[0].Profile)
	assert.Nil(t, got[1].Profile)

	got, err = svc.ListMentors(context.Background(), security.Claims{UserID: "a-1", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "0001", got[0].Profile.AccountNumber)
	assert.Equal(t, "SBIN0001", got[0].Profile.IFSCCode)
}
