package rowfield_test

import (
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/rowfield"
)

type order struct {
	Number      string     `json:"number"`
	TotalAmount float64    `json:"totalAmount"`
	ItemCount   int        `json:"itemCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	internal    string
}

func TestLookup_MatchesJSONTag(t *testing.T) {
	o := order{Number: "ORD-1"}
	v, ok := rowfield.Lookup(o, "number")
	if !ok || v.(string) != "ORD-1" {
		t.Errorf("got %v/%v", v, ok)
	}
}

func TestLookup_MatchesFieldNameCaseInsensitive(t *testing.T) {
	type plain struct{ CustomerName string }
	v, ok := rowfield.Lookup(plain{CustomerName: "Sam"}, "customername")
	if !ok || v.(string) != "Sam" {
		t.Errorf("got %v/%v", v, ok)
	}
}

func TestLookup_Pointers(t *testing.T) {
	o := &order{Number: "ORD-2"}
	if v, ok := rowfield.Lookup(o, "number"); !ok || v.(string) != "ORD-2" {
		t.Errorf("pointer lookup got %v/%v", v, ok)
	}

	var nilOrder *order
	if _, ok := rowfield.Lookup(nilOrder, "number"); ok {
		t.Error("nil pointer resolved")
	}
}

func TestLookup_Misses(t *testing.T) {
	o := order{internal: "x"}
	if _, ok := rowfield.Lookup(o, "internal"); ok {
		t.Error("unexported field resolved")
	}
	if _, ok := rowfield.Lookup(o, "nonexistent"); ok {
		t.Error("missing key resolved")
	}
	if _, ok := rowfield.Lookup("not-a-struct", "number"); ok {
		t.Error("non-struct resolved")
	}
}

func TestString(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	o := order{Number: "ORD-1", TotalAmount: 12.5, ItemCount: 3, CreatedAt: at}

	if got := rowfield.String(o, "number"); got != "ORD-1" {
		t.Errorf("string field = %q", got)
	}
	if got := rowfield.String(o, "itemCount"); got != "3" {
		t.Errorf("int field = %q", got)
	}
	if got := rowfield.String(o, "createdAt"); got != "2026-01-02T15:04:05Z" {
		t.Errorf("time field = %q", got)
	}
	if got := rowfield.String(o, "deliveredAt"); got != "" {
		t.Errorf("nil *time field = %q, want empty", got)
	}
	if got := rowfield.String(o, "nope"); got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
}

func TestTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	o := order{CreatedAt: at, DeliveredAt: &at}

	if got, ok := rowfield.Time(o, "createdAt"); !ok || !got.Equal(at) {
		t.Errorf("createdAt = %v/%v", got, ok)
	}
	if got, ok := rowfield.Time(o, "deliveredAt"); !ok || !got.Equal(at) {
		t.Errorf("deliveredAt = %v/%v", got, ok)
	}

	type stringTime struct {
		CreatedAt string `json:"createdAt"`
	}
	if got, ok := rowfield.Time(stringTime{CreatedAt: "2026-01-02T15:04:05Z"}, "createdAt"); !ok || !got.Equal(at) {
		t.Errorf("RFC3339 string = %v/%v", got, ok)
	}
	if _, ok := rowfield.Time(stringTime{CreatedAt: "yesterday"}, "createdAt"); ok {
		t.Error("unparseable string reported as time")
	}
}

func TestFloat(t *testing.T) {
	o := order{TotalAmount: 12.5, ItemCount: 3}
	if got, ok := rowfield.Float(o, "totalAmount"); !ok || got != 12.5 {
		t.Errorf("float field = %v/%v", got, ok)
	}
	if got, ok := rowfield.Float(o, "itemCount"); !ok || got != 3 {
		t.Errorf("int field = %v/%v", got, ok)
	}
	if _, ok := rowfield.Float(o, "number"); ok {
		t.Error("string field reported as numeric")
	}
}

func TestHas(t *testing.T) {
	o := order{}
	if !rowfield.Has(o, "number") || rowfield.Has(o, "nope") {
		t.Error("Has misreported")
	}
}
