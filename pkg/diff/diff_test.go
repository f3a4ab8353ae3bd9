package diff

import (
	"reflect"
	"testing"

	"github.com/odvcencio/enkelgit/pkg/object"
)

// TestClassify exercises the status classification table over presence and
// equality combinations of (receiver, base, giver).
func TestClassify(t *testing.T) {
	const x, y, z = object.Hash("x"), object.Hash("y"), object.Hash("z")

	tests := []struct {
		name    string
		r, b, g object.Hash
		want    Status
	}{
		{"both changed differently", x, y, z, StatusConflict},
		{"both added differently", x, "", z, StatusConflict},
		{"giver changed", x, x, z, StatusModify},
		{"receiver changed", z, x, x, StatusModify},
		{"unchanged", x, x, x, StatusSame},
		{"both changed identically", z, x, z, StatusSame},
		{"both absent", "", x, "", StatusSame},
		{"added by giver", "", "", z, StatusAdd},
		{"added by receiver", x, "", "", StatusAdd},
		{"deleted by giver", x, x, "", StatusDelete},
		{"deleted by receiver", "", x, x, StatusDelete},
		{"deleted by giver after receiver change", z, x, "", StatusDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.r, tt.b, tt.g); got != tt.want {
				t.Errorf("classify(%q, %q, %q) = %s, want %s", tt.r, tt.b, tt.g, got, tt.want)
			}
		})
	}
}

func TestTOCDiffThreeWay(t *testing.T) {
	base := object.TOC{"a": "1", "b": "2", "d": "9"}
	receiver := object.TOC{"a": "1", "b": "3", "d": "9"}
	giver := object.TOC{"a": "1", "b": "4", "c": "5"}

	d := TOCDiff(receiver, giver, base)

	wantStatuses := map[string]Status{
		"a": StatusSame,
		"b": StatusConflict,
		"c": StatusAdd,
		"d": StatusDelete,
	}
	for p, want := range wantStatuses {
		if got := d[p].Status; got != want {
			t.Errorf("path %s: status = %s, want %s", p, got, want)
		}
	}
	if fd := d["b"]; fd.Receiver != "3" || fd.Base != "2" || fd.Giver != "4" {
		t.Errorf("path b evidence = %+v", fd)
	}
}

// A two-way diff has no three-way evidence, so it never reports conflicts.
func TestTOCDiffTwoWayNeverConflicts(t *testing.T) {
	receiver := object.TOC{"a": "1", "b": "2"}
	giver := object.TOC{"a": "9", "c": "3"}

	d := TOCDiff(receiver, giver, nil)

	want := map[string]Status{
		"a": StatusModify,
		"b": StatusDelete,
		"c": StatusAdd,
	}
	if got := NameStatus(d); !reflect.DeepEqual(got, want) {
		t.Errorf("NameStatus = %v, want %v", got, want)
	}
}

func TestNameStatusDropsSame(t *testing.T) {
	d := Diff{
		"same.txt":    {Status: StatusSame},
		"changed.txt": {Status: StatusModify},
	}
	ns := NameStatus(d)
	if _, ok := ns["same.txt"]; ok {
		t.Error("NameStatus kept a SAME entry")
	}
	if ns["changed.txt"] != StatusModify {
		t.Error("NameStatus dropped a changed entry")
	}
}

func TestChangedAndConflictedPaths(t *testing.T) {
	d := Diff{
		"z": {Status: StatusConflict},
		"a": {Status: StatusAdd},
		"m": {Status: StatusSame},
	}
	if got := ChangedPaths(d); !reflect.DeepEqual(got, []string{"a", "z"}) {
		t.Errorf("ChangedPaths = %v", got)
	}
	if got := ConflictedPaths(d); !reflect.DeepEqual(got, []string{"z"}) {
		t.Errorf("ConflictedPaths = %v", got)
	}
}
