package services

import (
	"sort"

	"github.com/gfq-app/gfq/internal/models"
)

// ZoneStats : chiffres du tableau de bord pour une zone.
// TotalAmount == PaidAmount + UnpaidAmount pour toute zone.
type ZoneStats struct {
	OrganizationCount int     `json:"organizationCount"`
	InvoiceCount      int     `json:"invoiceCount"`
	TotalAmount       float64 `json:"totalAmount"`
	PaidAmount        float64 `json:"paidAmount"`
	UnpaidAmount      float64 `json:"unpaidAmount"`
	OverdueCount      int     `json:"overdueCount"`
}

// ComputeZoneStats dérive les statistiques par zone de l'instantané courant.
// Une structure dont la zone n'existe plus ne contribue à rien ; une facture
// payée alimente PaidAmount, toute autre alimente UnpaidAmount et, si elle
// est en retard, OverdueCount. Le résultat est recalculé à chaque appel,
// jamais mis en cache : le miroir peut changer entre deux appels.
func ComputeZoneStats(zones []models.Zone, orgs []models.Organization, invoices []models.Invoice) map[string]ZoneStats {
	stats := make(map[string]ZoneStats, len(zones))
	for _, z := range zones {
		stats[z.Name] = ZoneStats{}
	}

	// Index des factures par structure pour rester en O(structures + factures).
	byOrg := make(map[uint][]models.Invoice, len(orgs))
	for _, inv := range invoices {
		byOrg[inv.OrganizationID] = append(byOrg[inv.OrganizationID], inv)
	}

	for _, o := range orgs {
		st, ok := stats[o.ZoneName]
		if !ok {
			continue // structure orpheline, sa zone a disparu
		}
		st.OrganizationCount++
		for _, inv := range byOrg[o.ID] {
			st.InvoiceCount++
			st.TotalAmount += inv.TotalAmount
			if inv.Status == models.StatusPaid {
				st.PaidAmount += inv.TotalAmount
			} else {
				st.UnpaidAmount += inv.TotalAmount
				if inv.Status == models.StatusOverdue {
					st.OverdueCount++
				}
			}
		}
		stats[o.ZoneName] = st
	}
	return stats
}

// CollectZoneInvoices returns the invoices whose organization belongs to the
// named zone, most recent issue date first. Backs the per-zone drill-down.
func CollectZoneInvoices(orgs []models.Organization, invoices []models.Invoice, zoneName string) []models.Invoice {
	inZone := make(map[uint]bool, len(orgs))
	for _, o := range orgs {
		if o.ZoneName == zoneName {
			inZone[o.ID] = true
		}
	}
	var out []models.Invoice
	for _, inv := range invoices {
		if inZone[inv.OrganizationID] {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssueDate > out[j].IssueDate
	})
	return out
}
