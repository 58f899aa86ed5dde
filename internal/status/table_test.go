package status

import (
	"sync"
	"testing"
	"time"

	"github.com/kanhucharan/controllermon/internal/domain"
)

func TestTable_PublishAndCurrent(t *testing.T) {
	tbl := NewTable()
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	tbl.Publish(domain.StatusEntry{Host: "10.0.0.1", State: domain.StateOnline, LastChange: at})
	tbl.Publish(domain.StatusEntry{Host: "10.0.0.2", State: domain.StateOffline, LastChange: at})

	cur := tbl.Current()
	if len(cur) != 2 {
		t.Fatalf("want 2 entries, got %d", len(cur))
	}
	if cur["10.0.0.1"].State != domain.StateOnline {
		t.Fatalf("wrong state: %+v", cur["10.0.0.1"])
	}

	// overwrite keeps one entry per host
	tbl.Publish(domain.StatusEntry{Host: "10.0.0.1", State: domain.StateOffline, LastChange: at.Add(time.Minute)})
	cur = tbl.Current()
	if len(cur) != 2 || cur["10.0.0.1"].State != domain.StateOffline {
		t.Fatalf("overwrite failed: %+v", cur)
	}
}

func TestTable_CurrentIsACopy(t *testing.T) {
	tbl := NewTable()
	tbl.Publish(domain.StatusEntry{Host: "h", State: domain.StateOnline, LastChange: time.Now()})

	cur := tbl.Current()
	cur["h"] = domain.StatusEntry{Host: "h", State: domain.StateOffline}
	delete(cur, "h")

	if got := tbl.Current(); len(got) != 1 || got["h"].State != domain.StateOnline {
		t.Fatalf("snapshot mutation leaked into table: %+v", got)
	}
}

func TestTable_ConcurrentReadersAndWriter(t *testing.T) {
	tbl := NewTable()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		for {
			select {
			case <-stop:
				return
			default:
			}
			st := domain.StateOnline
			if i%2 == 1 {
				st = domain.StateOffline
			}
			tbl.Publish(domain.StatusEntry{Host: "10.0.0.1", State: st, LastChange: time.Unix(int64(i), 0)})
			i++
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				cur := tbl.Current()
				e, ok := cur["10.0.0.1"]
				if !ok {
					continue
				}
				// state and change time always travel together
				if e.State != domain.StateOnline && e.State != domain.StateOffline {
					t.Errorf("torn read: %+v", e)
					return
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(stop)
	wg.Wait()
}
