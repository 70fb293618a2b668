package cli

import (
	"reflect"
	"testing"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{900, "$900"},
		{12_500, "$12.5K"},
		{3_400_000, "$3.40M"},
		{1_250_000_000, "$1.25B"},
		{-3_400_000, "$-3.40M"},
	}
	for _, c := range cases {
		if got := FormatUSD(c.in); got != c.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDocFallbackKeys(t *testing.T) {
	d := Parse([]byte(`{
		"total_value_usd": 1500.5,
		"long_count": 12,
		"side": "LONG",
		"stats": {"mean": -2.5},
		"largest": [{"coin": "BTC"}, {"coin": "ETH"}]
	}`))

	if got := d.Float("total_usd", "total_value_usd"); got != 1500.5 {
		t.Errorf("Float fallback = %v, want 1500.5", got)
	}
	if got := d.Int("longs", "long_count"); got != 12 {
		t.Errorf("Int fallback = %v, want 12", got)
	}
	if got := d.Str("direction", "side"); got != "LONG" {
		t.Errorf("Str fallback = %q, want LONG", got)
	}
	if got := d.Sub("historical", "stats").Float("mean"); got != -2.5 {
		t.Errorf("Sub().Float = %v, want -2.5", got)
	}

	coins := []string{}
	for _, item := range d.List("top", "largest") {
		coins = append(coins, item.Str("coin"))
	}
	if !reflect.DeepEqual(coins, []string{"BTC", "ETH"}) {
		t.Errorf("List = %v", coins)
	}
}

func TestDocMissingKeys(t *testing.T) {
	d := Parse([]byte(`{"a": null}`))
	if d.Float("a", "b") != 0 {
		t.Error("null value should read as zero")
	}
	if d.Str("missing") != "" {
		t.Error("missing key should read as empty string")
	}
	if len(d.List("missing")) != 0 {
		t.Error("missing key should read as empty list")
	}
}

func TestParseNonObject(t *testing.T) {
	if d := Parse([]byte(`[1,2,3]`)); len(d) != 0 {
		t.Error("array body should parse to an empty Doc")
	}
	items := ParseList([]byte(`[{"x": 1}, {"x": 2}]`))
	if len(items) != 2 || items[1].Int("x") != 2 {
		t.Errorf("ParseList = %v", items)
	}
}

func TestNumericString(t *testing.T) {
	d := Parse([]byte(`{"price": "42.5"}`))
	if got := d.Float("price"); got != 42.5 {
		t.Errorf("numeric string = %v, want 42.5", got)
	}
}
