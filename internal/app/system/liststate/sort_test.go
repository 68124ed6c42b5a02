package liststate_test

import (
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
)

type item struct {
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
}

func names(rows []item) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestSort_StringsCaseInsensitive(t *testing.T) {
	rows := []item{{Name: "banana"}, {Name: "Apple"}, {Name: "cherry"}}
	got := names(liststate.Sort(rows, "name", liststate.Asc))
	want := []string{"Apple", "banana", "cherry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("asc sort = %v, want %v", got, want)
		}
	}
}

func TestSort_NumbersCompareNumerically(t *testing.T) {
	rows := []item{{Name: "a", Price: 100}, {Name: "b", Price: 9.5}, {Name: "c", Price: 20}}
	got := names(liststate.Sort(rows, "price", liststate.Asc))
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("numeric sort = %v, want %v (lexical would put 100 before 9.5)", got, want)
		}
	}
}

func TestSort_TimestampsCompareAsTimes(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []item{
		{Name: "newest", CreatedAt: base.AddDate(0, 2, 0)},
		{Name: "oldest", CreatedAt: base},
		{Name: "middle", CreatedAt: base.AddDate(0, 1, 0)},
	}
	got := names(liststate.Sort(rows, "createdAt", liststate.Desc))
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("desc time sort = %v, want %v", got, want)
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	rows := []item{{Name: "b"}, {Name: "a"}}
	liststate.Sort(rows, "name", liststate.Asc)
	if rows[0].Name != "b" {
		t.Error("Sort mutated its input slice")
	}
}

func TestSort_RoundTripTogglePreservesSet(t *testing.T) {
	rows := []item{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	asc := liststate.Sort(rows, "name", liststate.Asc)
	desc := liststate.Sort(asc, "name", liststate.Desc)
	if len(desc) != len(rows) {
		t.Fatalf("toggle changed row count: %d != %d", len(desc), len(rows))
	}
	for i := range asc {
		if asc[i].Name != desc[len(desc)-1-i].Name {
			t.Fatalf("desc is not the reverse of asc: %v vs %v", names(asc), names(desc))
		}
	}
}

func TestSort_IsIdempotent(t *testing.T) {
	rows := []item{
		{Name: "b", Price: 10},
		{Name: "a", Price: 10},
		{Name: "c", Price: 5},
	}
	once := liststate.Sort(rows, "price", liststate.Asc)
	twice := liststate.Sort(once, "price", liststate.Asc)
	for i := range once {
		if once[i].Name != twice[i].Name {
			t.Fatalf("re-sorting a sorted slice reordered it: %v vs %v", names(once), names(twice))
		}
	}
}

func TestSort_EmptyColumnKeepsOrder(t *testing.T) {
	rows := []item{{Name: "b"}, {Name: "a"}}
	got := names(liststate.Sort(rows, "", liststate.Asc))
	if got[0] != "b" || got[1] != "a" {
		t.Errorf("empty column reordered rows: %v", got)
	}
}

func TestPaginate(t *testing.T) {
	data := make([]int, 0, 23)
	for i := 0; i < 23; i++ {
		data = append(data, i)
	}

	page, info := liststate.Paginate(data, 2, 10)
	if len(page) != 10 || page[0] != 10 {
		t.Errorf("page 2 = %v", page)
	}
	if info.TotalPages != 3 || !info.HasPrev || !info.HasNext {
		t.Errorf("info = %+v", info)
	}
	if info.PrevPage != 1 || info.NextPage != 3 {
		t.Errorf("prev/next = %d/%d, want 1/3", info.PrevPage, info.NextPage)
	}
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	data := []int{1, 2, 3}

	_, info := liststate.Paginate(data, 99, 2)
	if info.Page != 2 {
		t.Errorf("over-range page = %d, want 2", info.Page)
	}
	if info.NextPage != 2 {
		t.Errorf("NextPage on last page = %d, want clamped to 2", info.NextPage)
	}

	_, info = liststate.Paginate(data, -1, 2)
	if info.Page != 1 {
		t.Errorf("under-range page = %d, want 1", info.Page)
	}
	if info.PrevPage != 1 {
		t.Errorf("PrevPage on first page = %d, want clamped to 1", info.PrevPage)
	}
}

func TestPaginate_EmptyData(t *testing.T) {
	page, info := liststate.Paginate([]int{}, 1, 10)
	if len(page) != 0 {
		t.Errorf("empty data produced rows: %v", page)
	}
	if info.TotalPages != 1 || info.HasPrev || info.HasNext {
		t.Errorf("info = %+v", info)
	}
}
