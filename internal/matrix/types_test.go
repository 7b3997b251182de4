package matrix

import (
	"encoding/json"
	"testing"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

func TestNewItemSetIsImmutable(t *testing.T) {
	src := []ScoredItem{{Name: "A", X: 10, Y: 20}, {Name: "B", X: 30, Y: 40}}
	set := NewItemSet(src)

	src[0].Name = "changed"
	if set.At(0).Name != "A" {
		t.Error("ItemSet should not alias the source slice")
	}

	items := set.Items()
	items[1].X = 99
	if set.At(1).X != 30 {
		t.Error("Items() should return a copy")
	}

	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestItemSetMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		set  ItemSet
		want string
	}{
		{name: "zero value", set: ItemSet{}, want: "[]"},
		{name: "empty slice", set: NewItemSet(nil), want: "[]"},
		{
			name: "ordered items",
			set:  NewItemSet([]ScoredItem{{Name: "B", X: 1, Y: 2}, {Name: "A", X: 3, Y: 4}}),
			want: `[{"name":"B","x":1,"y":2},{"name":"A","x":3,"y":4}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.set)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRequestNormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{name: "defaults", req: DefaultRequest(), wantErr: false},
		{name: "blank theme", req: Request{Theme: "  ", XAxis: AxisSpec{Name: "a"}, YAxis: AxisSpec{Name: "b"}}, wantErr: true},
		{name: "missing x axis", req: Request{Theme: "beer", YAxis: AxisSpec{Name: "b"}}, wantErr: false},
		{name: "blank axes", req: Request{Theme: "beer", XAxis: AxisSpec{Name: " "}, YAxis: AxisSpec{Name: "\t"}}, wantErr: false},
		{name: "padded values", req: Request{Theme: " beer ", XAxis: AxisSpec{Name: " price "}, YAxis: AxisSpec{Name: "taste\n"}}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !perrors.Is(err, perrors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %s, want INVALID_INPUT", perrors.GetCode(err))
			}
		})
	}

	n := Request{Theme: " beer ", XAxis: AxisSpec{Name: " price ", Description: " low - high "}}.Normalize()
	if n.Theme != "beer" || n.XAxis.Name != "price" || n.XAxis.Description != "low - high" {
		t.Errorf("Normalize() = %+v", n)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyLenient, false},
		{"lenient", PolicyLenient, false},
		{"STRICT", PolicyStrict, false},
		{" strict ", PolicyStrict, false},
		{"loose", PolicyLenient, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if PolicyStrict.String() != "strict" || PolicyLenient.String() != "lenient" {
		t.Error("Policy.String() mismatch")
	}
}
