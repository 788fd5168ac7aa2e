package models

import "testing"

func TestCategoryInfo_UnknownFallsBackToOther(t *testing.T) {
	info := Category("crypto").Info()
	if info.ID != CategoryOther {
		t.Errorf("expected other, got %s", info.ID)
	}
	if info.Name != "Khác" {
		t.Errorf("expected Khác, got %s", info.Name)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range AllCategories() {
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if Category("").Valid() {
		t.Error("expected empty category to be invalid")
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Name = "changed"
	if Categories()[0].Name != "Ăn uống" {
		t.Error("catalog was mutated through the returned slice")
	}
}
