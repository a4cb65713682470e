package form

import (
	"context"
	"testing"
	"time"

	"github.com/getmentor/engineer-form/internal/kvstore"
	"github.com/getmentor/engineer-form/internal/models"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHobby_AppendsExactlyOneEntry(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.SetPendingHobby("  chess ", " 12 "))
	added, err := f.session.AddHobby(ctx)
	require.NoError(t, err)
	require.True(t, added)

	state := f.session.State()
	assert.Equal(t, []models.Hobby{{Name: "Chess", Duration: "12 month"}}, state.Hobbies)

	view := f.session.View()
	assert.Equal(t, models.PendingHobby{}, view.PendingHobby)
	require.NotNil(t, view.Notice)
	assert.Equal(t, MsgHobbyAdded, view.Notice.Message)
	assert.Equal(t, state.Hobbies, f.persist.Load(ctx, f.session.ID()).Hobbies)
}

func TestAddHobby_InvalidInputChangesNothing(t *testing.T) {
	cases := []struct {
		name     string
		hobby    string
		duration string
	}{
		{"empty name", "", "5"},
		{"empty duration", "Chess", ""},
		{"non numeric duration", "Chess", "five"},
		{"negative duration", "Chess", "-5"},
		{"duration with unit", "Chess", "5 month"},
		{"single letter name", "x", "5"},
		{"non latin name", "Шахматы", "5"},
		{"markup only duration", "Chess", "<b></b>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSessionFixture(t)
			require.NoError(t, f.session.SetPendingHobby(tc.hobby, tc.duration))

			added, err := f.session.AddHobby(context.Background())
			require.NoError(t, err)
			assert.False(t, added)

			assert.Empty(t, f.session.State().Hobbies)
			view := f.session.View()
			assert.Equal(t, models.PendingHobby{Name: tc.hobby, Duration: tc.duration}, view.PendingHobby)
			require.NotNil(t, view.Notice)
			assert.Equal(t, "warning", view.Notice.Level)
			assert.Equal(t, MsgHobbyInvalid, view.Notice.Message)
		})
	}
}

func TestAddHobby_MarkupIsStripped(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SetPendingHobby("<b>golf</b>", "<i>7</i>"))

	added, err := f.session.AddHobby(context.Background())
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, []models.Hobby{{Name: "Golf", Duration: "7 month"}}, f.session.State().Hobbies)
}

func TestAddHobby_NoticeExpires(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SetPendingHobby("Chess", "3"))
	_, err := f.session.AddHobby(context.Background())
	require.NoError(t, err)

	f.clock.Advance(successNoticeDuration - time.Millisecond)
	assert.NotNil(t, f.session.View().Notice)

	f.clock.Advance(time.Millisecond)
	assert.Nil(t, f.session.View().Notice)
}

func seededHobbies(t *testing.T) *sessionFixture {
	t.Helper()
	store := kvstore.NewMemoryStore()
	stored := models.EmptyFormState()
	stored.Hobbies = []models.Hobby{
		{Name: "Chess", Duration: "3 month"},
		{Name: "Golf", Duration: "12 month"},
		{Name: "Tennis", Duration: "1 month"},
	}
	require.NoError(t, NewPersistence(store, "").Save(context.Background(), "seeded", stored))
	return openFixture(t, store, "seeded")
}

func TestRemoveHobby_ShiftsLaterEntries(t *testing.T) {
	f := seededHobbies(t)
	ctx := context.Background()

	require.NoError(t, f.session.RemoveHobby(ctx, 1))

	want := []models.Hobby{{Name: "Chess", Duration: "3 month"}, {Name: "Tennis", Duration: "1 month"}}
	assert.Equal(t, want, f.session.State().Hobbies)
	assert.Equal(t, want, f.persist.Load(ctx, "seeded").Hobbies)
}

func TestRemoveHobby_OutOfRange(t *testing.T) {
	f := seededHobbies(t)
	before := f.session.State().Hobbies

	for _, index := range []int{-1, 3, 100} {
		err := f.session.RemoveHobby(context.Background(), index)
		assert.ErrorIs(t, err, ErrHobbyIndexOutOfRange)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
	assert.Equal(t, before, f.session.State().Hobbies)
}

func TestRemoveHobby_LastEntryMakesFormInvalid(t *testing.T) {
	f := newSessionFixture(t)
	fillValidForm(t, f.session)
	require.True(t, f.session.IsValid())

	require.NoError(t, f.session.RemoveHobby(context.Background(), 0))

	assert.False(t, f.session.IsValid())
	assert.Equal(t, MsgHobbiesRequired, f.session.View().Errors[models.FieldHobbies])
}
