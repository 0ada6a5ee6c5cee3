package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/memtest"
	"github.com/dmitrijs2005/contactbook/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedContacts(t *testing.T, s *ContactService, userID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.Create(context.Background(), userID, ContactInput{
			FirstName: fmt.Sprintf("Putri %d", i),
			LastName:  ptr(fmt.Sprintf("Chasana %d", i)),
			Email:     ptr(fmt.Sprintf("putricha%d@gmail.com", i)),
			Phone:     ptr(fmt.Sprintf("11111%d", i)),
		})
		require.NoError(t, err)
	}
}

func TestContactCreate_GetRoundTrip(t *testing.T) {
	db, _ := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	s := NewContactService(db, m, testConfig())

	created, err := s.Create(context.Background(), u.ID, ContactInput{
		FirstName: "Doni",
		LastName:  ptr("Wahyu"),
		Email:     ptr("doniwyk@gmail.com"),
		Phone:     ptr("0987654321"),
	})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), u.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doni", got.FirstName)
	assert.Equal(t, "Wahyu", *got.LastName)
	assert.Equal(t, "doniwyk@gmail.com", *got.Email)
	assert.Equal(t, "0987654321", *got.Phone)
}

func TestContactCreate_BlankOptionalFieldsBecomeNil(t *testing.T) {
	db, _ := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	s := NewContactService(db, m, testConfig())

	c, err := s.Create(context.Background(), u.ID, ContactInput{FirstName: "  Doni ", LastName: ptr("  "), Email: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Doni", c.FirstName)
	assert.Nil(t, c.LastName)
	assert.Nil(t, c.Email)
	assert.Nil(t, c.Phone)
}

func TestContactCreate_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewContactService(db, memtest.NewRepositoryManager(), testConfig())

	tests := []struct {
		name string
		in   ContactInput
		want map[string][]string
	}{
		{
			name: "empty first name",
			in:   ContactInput{FirstName: "", Email: ptr("doni")},
			want: map[string][]string{
				"first_name": {"The first name field is required."},
				"email":      {"The email field must be a valid email address."},
			},
		},
		{
			name: "too long",
			in: ContactInput{
				FirstName: strings.Repeat("a", 101),
				LastName:  ptr(strings.Repeat("b", 101)),
				Phone:     ptr(strings.Repeat("1", 21)),
			},
			want: map[string][]string{
				"first_name": {"The first name field must not be greater than 100 characters."},
				"last_name":  {"The last name field must not be greater than 100 characters."},
				"phone":      {"The phone field must not be greater than 20 characters."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), 1, tt.in)
			verr, ok := validation.As(err)
			require.True(t, ok, "want validation error, got %v", err)
			assert.Equal(t, tt.want, verr.Map())
		})
	}
}

func TestContact_OtherUsersContactIsNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	owner := seedUser(t, m, "owner")
	other := seedUser(t, m, "other")
	c := seedContact(t, m, owner.ID, "Doni")
	s := NewContactService(db, m, testConfig())

	_, err := s.Get(context.Background(), other.ID, c.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	expectFailedTx(mock)
	_, err = s.Update(context.Background(), other.ID, c.ID, ContactInput{FirstName: "Hacked"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	expectFailedTx(mock)
	assert.ErrorIs(t, s.Delete(context.Background(), other.ID, c.ID), common.ErrorNotFound)

	got, err := s.Get(context.Background(), owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doni", got.FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactUpdate_ReplacesFields(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	s := NewContactService(db, m, testConfig())

	c, err := s.Create(context.Background(), u.ID, ContactInput{FirstName: "Doni", Phone: ptr("0987654321")})
	require.NoError(t, err)

	expectTx(mock)
	updated, err := s.Update(context.Background(), u.ID, c.ID, ContactInput{
		FirstName: "Putri",
		LastName:  ptr("Chasana"),
		Email:     ptr("putricha@gmail.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "Putri", updated.FirstName)
	assert.Nil(t, updated.Phone)

	got, err := s.Get(context.Background(), u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chasana", *got.LastName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactUpdate_ValidationRunsFirst(t *testing.T) {
	db, mock := newSQLMockDB(t)
	s := NewContactService(db, memtest.NewRepositoryManager(), testConfig())

	_, err := s.Update(context.Background(), 1, 999, ContactInput{})
	assert.ErrorIs(t, err, common.ErrorValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactDelete(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	c := seedContact(t, m, u.ID, "Doni")
	s := NewContactService(db, m, testConfig())

	expectTx(mock)
	require.NoError(t, s.Delete(context.Background(), u.ID, c.ID))

	_, err := s.Get(context.Background(), u.ID, c.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	expectFailedTx(mock)
	assert.ErrorIs(t, s.Delete(context.Background(), u.ID, c.ID), common.ErrorNotFound)
}

func TestContactSearch_Pagination(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	s := NewContactService(db, m, testConfig())
	seedContacts(t, s, u.ID, 20)

	expectTx(mock)
	page, err := s.Search(context.Background(), u.ID, SearchInput{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, int64(20), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	expectTx(mock)
	page, err = s.Search(context.Background(), u.ID, SearchInput{Page: 2, Size: 5})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, "Putri 5", page.Items[0].FirstName)

	expectTx(mock)
	page, err = s.Search(context.Background(), u.ID, SearchInput{Page: 9, Size: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(20), page.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactSearch_PageBeyondRange(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	s := NewContactService(db, m, testConfig())
	seedContacts(t, s, u.ID, 3)

	for _, size := range []int{1, 10, 100} {
		expectTx(mock)
		page, err := s.Search(context.Background(), u.ID, SearchInput{Page: math.MaxInt, Size: size})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
		assert.Equal(t, math.MaxInt, page.CurrentPage)
		assert.Equal(t, int64(3), page.Total)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, pageOffset(1, 10))
	assert.Equal(t, 20, pageOffset(3, 10))
	assert.Equal(t, math.MaxInt-10, pageOffset(math.MaxInt, 10))
	assert.Equal(t, math.MaxInt-10, pageOffset(math.MaxInt/10+1, 10))
	assert.GreaterOrEqual(t, pageOffset(math.MaxInt/10, 10), 0)
	assert.Equal(t, math.MaxInt-1, pageOffset(math.MaxInt, 1))
}

func TestContactSearch_Filters(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	u := seedUser(t, m, "test")
	other := seedUser(t, m, "other")
	s := NewContactService(db, m, testConfig())
	seedContacts(t, s, u.ID, 20)
	seedContacts(t, s, other.ID, 3)

	tests := []struct {
		name  string
		in    SearchInput
		total int64
	}{
		{name: "no filters sees only own contacts", in: SearchInput{}, total: 20},
		{name: "name matches last name case-insensitively", in: SearchInput{Name: "chasana 1"}, total: 11},
		{name: "name matches first name", in: SearchInput{Name: "Putri 19"}, total: 1},
		{name: "email", in: SearchInput{Email: "putricha1"}, total: 11},
		{name: "phone", in: SearchInput{Phone: "1111119"}, total: 1},
		{name: "combined", in: SearchInput{Name: "putri 1", Email: "putricha12@"}, total: 1},
		{name: "nothing matches", in: SearchInput{Name: "Doni"}, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTx(mock)
			page, err := s.Search(context.Background(), u.ID, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Total)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestContactSearch_PageSizeBounds(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewContactService(db, memtest.NewRepositoryManager(), &config.Config{MaxPageSize: 50})

	page, size := s.pageBounds(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = s.pageBounds(-3, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, size)

	s = NewContactService(db, memtest.NewRepositoryManager(), &config.Config{})
	_, size = s.pageBounds(1, 500)
	assert.Equal(t, 100, size)
}

func TestContactSearch_RepoError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	m := memtest.NewRepositoryManager()
	rm := &fakeRepoManager{
		RepositoryManager: m,
		contacts:          &fakeContactsRepo{Repository: m.Contacts(nil), searchErr: errBoom},
	}
	s := NewContactService(db, rm, testConfig())
	expectFailedTx(mock)

	_, err := s.Search(context.Background(), 1, SearchInput{})
	if err == nil || !regexp.MustCompile(`error searching contacts: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped search error, got %v", err)
	}
}
