package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func TestEventDefinitionParsesDates(t *testing.T) {
	def := EventDefinition()

	event, err := def.New(&dto.EventInput{
		Title: ptr("CTF night"), Description: ptr("d"), Location: ptr("Lab"), Date: ptr("2024-11-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), event.Date)

	_, err = def.New(&dto.EventInput{Title: ptr("x"), Description: ptr("d"), Location: ptr("Lab"), Date: ptr("tomorrow")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = def.New(&dto.EventInput{Title: ptr("x"), Description: ptr("d"), Location: ptr("Lab")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestClassDefinitionValidatesLinks(t *testing.T) {
	def := ClassDefinition()
	base := func() *dto.ClassInput {
		return &dto.ClassInput{Title: ptr("Pwn"), Description: ptr("d"), Date: ptr("2024-10-01"), Time: ptr("18:00")}
	}

	in := base()
	in.ContentLinks = &dto.ContentLinks{{Label: "Slides", URL: "https://s"}, {Label: "Repo", URL: "https://r"}}
	class, err := def.New(in)
	require.NoError(t, err)
	assert.Equal(t, []models.ContentLink{{Label: "Slides", URL: "https://s"}, {Label: "Repo", URL: "https://r"}}, class.ContentLinks)

	in = base()
	in.ContentLinks = &dto.ContentLinks{{Label: "", URL: "https://s"}}
	_, err = def.New(in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	in = base()
	in.Capacity = ptr(-1)
	_, err = def.New(in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	class, err = def.New(base())
	require.NoError(t, err)
	assert.NotNil(t, class.ContentLinks)
	assert.Empty(t, class.ContentLinks)
}

func TestClassChangesOnlySupplied(t *testing.T) {
	changes, err := ClassDefinition().Changes(&dto.ClassInput{Location: ptr("Room 4"), Capacity: ptr(12)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": "Room 4", "capacity": 12}, changes)
}

func TestCTFDefinitionPreviewType(t *testing.T) {
	def := CTFDefinition()

	ctf, err := def.New(&dto.CTFInput{Title: ptr("baby-rev"), Author: ptr("ada")})
	require.NoError(t, err)
	assert.Equal(t, models.PreviewImage, ctf.PreviewType)

	ctf, err = def.New(&dto.CTFInput{Title: ptr("baby-rev"), Author: ptr("ada"), PreviewType: ptr("LINK"), VideoLink: ptr("https://v")})
	require.NoError(t, err)
	assert.Equal(t, "https://v", ctf.PreviewSource())

	_, err = def.New(&dto.CTFInput{Title: ptr("x"), Author: ptr("y"), PreviewType: ptr("gif")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = def.Changes(&dto.CTFInput{PreviewType: ptr("audio")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestMemberDefinitionRequiresNameAndRole(t *testing.T) {
	_, err := MemberDefinition().New(&dto.MemberInput{Name: ptr("Ada")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	member, err := MemberDefinition().New(&dto.MemberInput{Name: ptr("Ada"), Role: ptr("President"), GitHub: ptr("https://github.com/ada")})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/ada", member.GitHub)
}
