package data

import "strings"

// Canonical skeleton node names, addressed in config by stable author
// keys ("Head", "LThigh", ...) so timeline files never carry the raw
// skeleton spelling.
var nodeKeys = map[string]string{
	"pelvis": "NPC Pelvis [Pelv]",
	"spine0": "NPC Spine [Spn0]",
	"spine1": "NPC Spine1 [Spn1]",
	"spine2": "NPC Spine2 [Spn2]",
	"spine3": "NPC Spine3 [Spn3]",
	"neck":   "NPC Neck [Neck]",
	"head":   "NPC Head [Head]",

	"lclavicle": "NPC L Clavicle [LClv]",
	"rclavicle": "NPC R Clavicle [RClv]",
	"lupperarm": "NPC L UpperArm [LUar]",
	"rupperarm": "NPC R UpperArm [RUar]",
	"lforearm":  "NPC L Forearm [LLar]",
	"rforearm":  "NPC R Forearm [RLar]",
	"lhand":     "NPC L Hand [LHnd]",
	"rhand":     "NPC R Hand [RHnd]",

	"lthigh": "NPC L Thigh [LThg]",
	"rthigh": "NPC R Thigh [RThg]",
	"lcalf":  "NPC L Calf [LClf]",
	"rcalf":  "NPC R Calf [RClf]",
	"lfoot":  "NPC L Foot [Lft ]",
	"rfoot":  "NPC R Foot [Rft ]",
	"ltoe0":  "NPC L Toe0 [LToe]",
	"rtoe0":  "NPC R Toe0 [RToe]",
}

// ResolveNodeKey maps an author key to the canonical node name.
// Lookup is case-insensitive.
func ResolveNodeKey(key string) (string, bool) {
	name, ok := nodeKeys[strings.ToLower(strings.TrimSpace(key))]
	return name, ok
}

// Morph names may contain spaces, which are awkward in author keys.
// Known aliases are listed here; unknown keys pass through as-is.
var morphAliases = map[string]string{
	"BellyBulge":  "Belly Bulge",
	"Belly_Bulge": "Belly Bulge",
}

// ResolveMorphAlias maps an author morph key to its canonical morph name.
func ResolveMorphAlias(key string) string {
	if name, ok := morphAliases[key]; ok {
		return name
	}
	return key
}
