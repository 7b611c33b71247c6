package services

import (
	"testing"
	"time"

	model "github.com/adelorme/qr1board/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultListsOnEmptyStore(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SeedDefaultLists())

	priorities, err := s.GetList("priorities")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2", "P3"}, priorities)

	statuses, err := s.GetList("statuses")
	require.NoError(t, err)
	assert.Len(t, statuses, 5)
}

func TestSeedDefaultListsIsIdempotent(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SeedDefaultLists())
	require.NoError(t, s.SeedDefaultLists())

	priorities, err := s.GetList("priorities")
	require.NoError(t, err)
	assert.Len(t, priorities, 3)
}

func TestSeedSkippedWhenAnyListExists(t *testing.T) {
	s := newTestService(t)

	// One hand-added value means the store is not empty: no defaults.
	require.NoError(t, s.AddListValue("departments", "Logistique"))
	require.NoError(t, s.SeedDefaultLists())

	departments, err := s.GetList("departments")
	require.NoError(t, err)
	assert.Equal(t, []string{"Logistique"}, departments)

	priorities, err := s.GetList("priorities")
	require.NoError(t, err)
	assert.Empty(t, priorities)
}

func TestGetListSortsAlphabetically(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.AddListValue("zones", "Kitting"))
	require.NoError(t, s.AddListValue("zones", "Contrôle final"))
	require.NoError(t, s.AddListValue("zones", "Ligne 2"))

	values, err := s.GetList("zones")
	require.NoError(t, err)
	assert.Equal(t, []string{"Contrôle final", "Kitting", "Ligne 2"}, values)
}

func TestAddListValueTrimsAndDeduplicates(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.AddListValue("departments", "  Logistique  "))
	require.NoError(t, s.AddListValue("departments", "Logistique"))
	require.NoError(t, s.AddListValue("departments", "   "))

	values, err := s.GetList("departments")
	require.NoError(t, err)
	assert.Equal(t, []string{"Logistique"}, values)
}

func TestDeleteListValue(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.AddListValue("departments", "Logistique"))
	require.NoError(t, s.AddListValue("departments", "Qualité"))
	require.NoError(t, s.DeleteListValue("departments", "Logistique"))

	values, err := s.GetList("departments")
	require.NoError(t, err)
	assert.Equal(t, []string{"Qualité"}, values)

	// Deleting a missing value is fine.
	require.NoError(t, s.DeleteListValue("departments", "Inexistant"))
}

func TestListsAreIndependentOfActions(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SeedDefaultLists())

	// An action keeps a value even after it leaves the list: the binding is
	// display-only.
	a := mustCreate(t, s, model.Action{
		CreatedBy: "a.delorme",
		DeptOwner: "Qualité",
		OwnerName: "M. Caron",
		Problem:   "Joint mal positionné",
		DueDate:   date(2025, time.April, 1),
	})
	require.NoError(t, s.DeleteListValue("departments", "Qualité"))

	views, err := s.QueryActions(ActionFilters{DeptOwner: "Qualité"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, a.ActionID, views[0].ActionID)
}
