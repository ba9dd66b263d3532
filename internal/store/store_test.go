package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gfq-app/gfq/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open db")
	require.NoError(t, conn.AutoMigrate(&models.Zone{}, &models.Organization{}, &models.Invoice{}), "migrate")
	return New(conn)
}

func TestUpsertAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	a := models.Zone{Name: "A"}
	b := models.Zone{Name: "B"}
	require.NoError(t, s.Zones.Upsert(&a))
	require.NoError(t, s.Zones.Upsert(&b))
	require.NotZero(t, a.ID, "id must be assigned by the store")
	require.Greater(t, b.ID, a.ID)
}

func TestUpsertWithIDReplaces(t *testing.T) {
	s := newTestStore(t)

	z := models.Zone{Name: "AKWA"}
	require.NoError(t, s.Zones.Upsert(&z))
	z.Name = "AKWA NORD"
	require.NoError(t, s.Zones.Upsert(&z))

	all, err := s.Zones.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "AKWA NORD", all[0].Name)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	z := models.Zone{Name: "A"}
	require.NoError(t, s.Zones.Upsert(&z))
	require.NoError(t, s.Zones.Remove(z.ID))
	require.NoError(t, s.Zones.Remove(z.ID), "removing an absent id must not fail")
	require.NoError(t, s.Zones.Remove(999))

	n, err := s.Zones.Count()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestClearEmptiesOneCollectionOnly(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Zones.Upsert(&models.Zone{Name: "A"}))
	require.NoError(t, s.Organizations.Upsert(&models.Organization{Name: "Org", ZoneName: "A"}))
	require.NoError(t, s.Zones.Clear())

	zn, err := s.Zones.Count()
	require.NoError(t, err)
	require.Zero(t, zn)
	on, err := s.Organizations.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, on)
}

func TestGetAllOrdersByID(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, s.Zones.Upsert(&models.Zone{Name: name}))
	}
	all, err := s.Zones.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		require.Greater(t, all[i].ID, all[i-1].ID)
	}
}

func TestInvoiceLineItemsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	inv := models.Invoice{
		OrganizationID: 1,
		Number:         "F-001",
		Status:         models.StatusUnpaid,
		LineItems: models.LineItems{
			{Designation: "Ramassage", Quantity: 2, UnitPrice: 1500},
			{Designation: "Tri", Quantity: 1, UnitPrice: 500},
		},
	}
	require.NoError(t, s.Invoices.Upsert(&inv))

	all, err := s.Invoices.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, inv.LineItems, all[0].LineItems)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Zones.Upsert(&models.Zone{Name: "A"}))

	err := s.Transaction(func(tx *Store) error {
		if err := tx.Zones.Clear(); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	n, err := s.Zones.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, n, "failed transaction must leave the collection intact")
}
