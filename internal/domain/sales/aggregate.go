package sales

import (
	"sort"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// AggregateQuantities suma la cantidad pedida por producto en todas las líneas del evento.
// Devuelve además los productos en orden ascendente: es el orden de toma de bloqueos,
// estable entre eventos para no producir deadlocks.
func AggregateQuantities(lines []entity.LineRequest) (map[int64]int64, []int64) {
	totals := make(map[int64]int64, len(lines))
	for _, l := range lines {
		totals[l.ProductID] += l.Quantity
	}
	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return totals, ids
}
