// Package naming parses and builds the studio's file naming
// convention: MM_DD_YYYY_last_first_pose stamps with _tkN take
// suffixes.
package naming

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ShootDateLayout is the underscore date format used for shoot-day
// directories on the incoming share, e.g. "12_10_2019".
const ShootDateLayout = "01_02_2006"

// ColorCardKey is the player key reserved for color-card takes.
const ColorCardKey = "color_card"

// Take describes a raw take directory as captured on set, named
// <order>_<last>_<first>_<pose...>_tk<N>, e.g. "4_carbonel_ray_neutral_tk3".
type Take struct {
	Raw    string // original directory name
	Order  int    // capture order on set
	Player string // player key, "<last>_<first>"
	Pose   string // pose code, may contain underscores ("brow_furrow")
	Token  string // take token, "tk3"
}

// ParseTake splits a take directory name into its fields. Names with
// fewer than five underscore fields are not takes and return an error.
func ParseTake(name string) (Take, error) {
	fields := strings.Split(name, "_")
	if len(fields) < 5 {
		return Take{}, fmt.Errorf("take %q: want at least 5 fields, got %d", name, len(fields))
	}
	order, err := strconv.Atoi(fields[0])
	if err != nil {
		return Take{}, fmt.Errorf("take %q: order field %q is not a number", name, fields[0])
	}
	return Take{
		Raw:    name,
		Order:  order,
		Player: strings.Join(fields[1:3], "_"),
		Pose:   strings.Join(fields[3:len(fields)-1], "_"),
		Token:  fields[len(fields)-1],
	}, nil
}

// ParseShootDate parses a shoot-day directory name such as "12_10_2019".
func ParseShootDate(name string) (time.Time, error) {
	t, err := time.Parse(ShootDateLayout, name)
	if err != nil {
		return time.Time{}, fmt.Errorf("directory %q does not name a shoot date: %w", name, err)
	}
	return t, nil
}

// StampTake rewrites a raw take name for the project tree: the on-set
// order prefix is replaced with the shoot date, so
// "4_carbonel_ray_neutral_tk3" shot on 01_12_2020 becomes
// "01_12_2020_carbonel_ray_neutral_tk3".
func StampTake(dateStamp, raw string) string {
	fields := strings.Split(raw, "_")
	if len(fields) < 2 {
		return dateStamp + "_" + raw
	}
	return dateStamp + "_" + strings.Join(fields[1:], "_")
}

// stampedFieldCount is the number of leading fields in a stamped take
// name that identify the shoot date and player (MM, DD, YYYY, last, first).
const stampedFieldCount = 5

// PoseFromStamped extracts the pose code from a stamped take name,
// e.g. "01_12_2020_jefferson_amile_brow_furrow_tk1" -> "brow_furrow".
func PoseFromStamped(stamped string) string {
	fields := strings.Split(stamped, "_")
	if len(fields) <= stampedFieldCount+1 {
		return ""
	}
	return strings.Join(fields[stampedFieldCount:len(fields)-1], "_")
}

// TakeToken returns the trailing take token of a take name ("tk2").
func TakeToken(name string) string {
	fields := strings.Split(name, "_")
	return fields[len(fields)-1]
}

// ProofBase returns the date+player prefix of a stamped take name,
// which names the proof sheet outputs for the player.
func ProofBase(stamped string) string {
	fields := strings.Split(stamped, "_")
	if len(fields) < stampedFieldCount {
		return stamped
	}
	return strings.Join(fields[:stampedFieldCount], "_")
}

// SimplifyCameraFile strips the per-frame noise the cameras append to
// file names, keeping only the first two underscore fields:
// "A001_C042_0115QT_001.CR2" -> "A001_C042.CR2". Names that are already
// short come back unchanged.
func SimplifyCameraFile(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	fields := strings.SplitN(base, "_", 3)
	if len(fields) < 3 {
		return filename
	}
	return fields[0] + "_" + fields[1] + ext
}

// DisplayName renders a player key for humans: "carbonel_ray" -> "Ray Carbonel".
func DisplayName(player string) string {
	fields := strings.Split(player, "_")
	out := make([]string, 0, len(fields))
	for i := len(fields) - 1; i >= 0; i-- {
		out = append(out, titleWord(fields[i]))
	}
	return strings.Join(out, " ")
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
