package conv

import "testing"

func TestAppendUint(t *testing.T) {
	tests := []struct {
		n     uint64
		width int
		want  string
	}{
		{0, 0, "0"},
		{7, 0, "7"},
		{7, 2, "07"},
		{19, 2, "19"},
		{115200, 2, "115200"},
		{0, 3, "000"},
		{18446744073709551615, 0, "18446744073709551615"},
	}
	for _, tc := range tests {
		if got := string(AppendUint(nil, tc.n, tc.width)); got != tc.want {
			t.Errorf("AppendUint(%d, %d) = %q, want %q", tc.n, tc.width, got, tc.want)
		}
	}
}

func TestAppendUintKeepsPrefix(t *testing.T) {
	if got := string(AppendUint([]byte("P1."), 2, 2)); got != "P1.02" {
		t.Fatalf("got %q", got)
	}
	if Utoa(1000000) != "1000000" {
		t.Fatal("Utoa")
	}
}
