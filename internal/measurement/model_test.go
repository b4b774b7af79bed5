package measurement

import "testing"

func TestSetValidate(t *testing.T) {
	valid := Set{
		Unit: UnitInches,
		Essential: Essential{
			Neck: 15.5, Chest: 40, Waist: 34, Hip: 41, Shoulder: 18,
		},
		Trousers: Trousers{Length: 42, Thigh: 24, Inseam: 32},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid set rejected: %v", err)
	}

	cm := valid
	cm.Unit = UnitCM
	if err := cm.Validate(); err != nil {
		t.Fatalf("cm unit rejected: %v", err)
	}

	badUnit := valid
	badUnit.Unit = "yards"
	if err := badUnit.Validate(); err == nil {
		t.Fatal("unknown unit accepted")
	}

	noUnit := valid
	noUnit.Unit = ""
	if err := noUnit.Validate(); err == nil {
		t.Fatal("missing unit accepted")
	}

	negative := valid
	negative.Essential.Chest = -40
	if err := negative.Validate(); err == nil {
		t.Fatal("negative measurement accepted")
	}
}
