package handlepool

import (
	"testing"
)

// BenchmarkRealisticUsage tests entity-table scenarios the pool is built for
func BenchmarkRealisticUsage(b *testing.B) {

	type entity struct {
		ID   int64
		Data [56]byte // Total 64 bytes
	}

	// Test 1: Steady-state churn, every removal followed by an insert
	b.Run("SteadyChurn/Pool", func(b *testing.B) {
		p := New[entity](WithCapacity(1024))
		hs := make([]Handle[entity], 1024)
		for j := range hs {
			hs[j] = p.Insert(entity{ID: int64(j)})
		}
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			j := i & 1023
			p.Free(hs[j])
			hs[j] = p.Insert(entity{ID: int64(i)})
		}
	})

	b.Run("SteadyChurn/Map", func(b *testing.B) {
		m := make(map[int64]*entity, 1024)
		keys := make([]int64, 1024)
		for j := range keys {
			keys[j] = int64(j)
			m[keys[j]] = &entity{ID: keys[j]}
		}
		next := int64(len(keys))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			j := i & 1023
			delete(m, keys[j])
			keys[j] = next
			m[next] = &entity{ID: next}
			next++
		}
	})

	// Test 2: Checked reads through handles
	b.Run("CheckedReads/Pool", func(b *testing.B) {
		p := New[entity]()
		hs := make([]Handle[entity], 1024)
		for j := range hs {
			hs[j] = p.Insert(entity{ID: int64(j)})
		}
		b.ResetTimer()

		var sum int64
		for i := 0; i < b.N; i++ {
			if e, ok := p.Lookup(hs[i&1023]); ok {
				sum += e.ID
			}
		}
		_ = sum
	})

	b.Run("CheckedReads/Map", func(b *testing.B) {
		m := make(map[int64]*entity, 1024)
		for j := 0; j < 1024; j++ {
			m[int64(j)] = &entity{ID: int64(j)}
		}
		b.ResetTimer()

		var sum int64
		for i := 0; i < b.N; i++ {
			if e, ok := m[int64(i&1023)]; ok {
				sum += e.ID
			}
		}
		_ = sum
	})

	// Test 3: Full traversal with a quarter of the slots freed
	b.Run("Traversal/Pool", func(b *testing.B) {
		p := New[entity]()
		for j := 0; j < 4096; j++ {
			h := p.Insert(entity{ID: int64(j)})
			if j%4 == 0 {
				p.Free(h)
			}
		}
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			p.ForEach(func(e *entity) { e.Data[0]++ })
		}
	})
}
