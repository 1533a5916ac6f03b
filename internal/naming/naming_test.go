package naming

import "testing"

func TestParseTake(t *testing.T) {
	take, err := ParseTake("4_carbonel_ray_neutral_tk3")
	if err != nil {
		t.Fatalf("ParseTake returned error: %v", err)
	}
	if take.Order != 4 {
		t.Fatalf("Order = %d, want 4", take.Order)
	}
	if take.Player != "carbonel_ray" {
		t.Fatalf("Player = %q, want %q", take.Player, "carbonel_ray")
	}
	if take.Pose != "neutral" {
		t.Fatalf("Pose = %q, want %q", take.Pose, "neutral")
	}
	if take.Token != "tk3" {
		t.Fatalf("Token = %q, want %q", take.Token, "tk3")
	}
}

func TestParseTake_MultiWordPose(t *testing.T) {
	take, err := ParseTake("12_jefferson_amile_brow_furrow_tk1")
	if err != nil {
		t.Fatalf("ParseTake returned error: %v", err)
	}
	if take.Pose != "brow_furrow" {
		t.Fatalf("Pose = %q, want %q", take.Pose, "brow_furrow")
	}
}

func TestParseTake_TooFewFields(t *testing.T) {
	if _, err := ParseTake("color_card"); err == nil {
		t.Fatalf("ParseTake returned nil error, want error for short name")
	}
	if _, err := ParseTake("1_smith_john_tk1"); err == nil {
		t.Fatalf("ParseTake returned nil error, want error for 4 fields")
	}
}

func TestParseTake_BadOrder(t *testing.T) {
	if _, err := ParseTake("x_carbonel_ray_neutral_tk3"); err == nil {
		t.Fatalf("ParseTake returned nil error, want error for non-numeric order")
	}
}

func TestParseShootDate(t *testing.T) {
	got, err := ParseShootDate("12_10_2019")
	if err != nil {
		t.Fatalf("ParseShootDate returned error: %v", err)
	}
	if got.Year() != 2019 || got.Month() != 12 || got.Day() != 10 {
		t.Fatalf("ParseShootDate = %v, want 2019-12-10", got)
	}
	if _, err := ParseShootDate("testTeam"); err == nil {
		t.Fatalf("ParseShootDate returned nil error for non-date name")
	}
}

func TestStampTake(t *testing.T) {
	got := StampTake("01_12_2020", "4_carbonel_ray_neutral_tk3")
	want := "01_12_2020_carbonel_ray_neutral_tk3"
	if got != want {
		t.Fatalf("StampTake = %q, want %q", got, want)
	}
}

func TestPoseFromStamped(t *testing.T) {
	got := PoseFromStamped("01_12_2020_jefferson_amile_brow_furrow_tk1")
	if got != "brow_furrow" {
		t.Fatalf("PoseFromStamped = %q, want %q", got, "brow_furrow")
	}
	if got := PoseFromStamped("01_12_2020_x"); got != "" {
		t.Fatalf("PoseFromStamped short name = %q, want empty", got)
	}
}

func TestTakeToken(t *testing.T) {
	if got := TakeToken("01_12_2020_jefferson_amile_yell_angry_tk2"); got != "tk2" {
		t.Fatalf("TakeToken = %q, want %q", got, "tk2")
	}
}

func TestProofBase(t *testing.T) {
	got := ProofBase("01_12_2020_jefferson_amile_neutral_tk1")
	if got != "01_12_2020_jefferson_amile" {
		t.Fatalf("ProofBase = %q, want %q", got, "01_12_2020_jefferson_amile")
	}
}

func TestSimplifyCameraFile(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"A001_C042_0115QT_001.CR2", "A001_C042.CR2"},
		{"A001_C042.CR2", "A001_C042.CR2"},
		{"IMG_0001_extra.jpg", "IMG_0001.jpg"},
		{"single.jpg", "single.jpg"},
	}
	for _, c := range cases {
		if got := SimplifyCameraFile(c.in); got != c.want {
			t.Fatalf("SimplifyCameraFile(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("carbonel_ray"); got != "Ray Carbonel" {
		t.Fatalf("DisplayName = %q, want %q", got, "Ray Carbonel")
	}
	if got := DisplayName("king_louis"); got != "Louis King" {
		t.Fatalf("DisplayName = %q, want %q", got, "Louis King")
	}
}
