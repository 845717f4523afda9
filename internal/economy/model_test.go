package economy

import "testing"

func TestValidTransferDirection(t *testing.T) {
	valid := [][2]Store{
		{StoreWallet, StoreBank},
		{StoreBank, StoreWallet},
	}
	for _, pair := range valid {
		if !ValidTransferDirection(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be valid", pair[0], pair[1])
		}
	}

	invalid := [][2]Store{
		{StoreWallet, StoreWallet},
		{StoreBank, StoreBank},
		{"", StoreBank},
		{StoreWallet, ""},
		{"vault", StoreBank},
	}
	for _, pair := range invalid {
		if ValidTransferDirection(pair[0], pair[1]) {
			t.Fatalf("expected %q -> %q to be invalid", pair[0], pair[1])
		}
	}
}
