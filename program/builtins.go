package program

import "github.com/deepnoodle-ai/settix/value"

// externalEnums tabulates numeric enumerations whose declarations live
// outside the analyzed source tree (platform constants imported by plugin
// files). Property accesses that resolve to nothing in the file fall back
// to this table. The table is data: extending it requires no code changes.
var externalEnums = map[string]map[string]int64{
	"ActivityType": {
		"PLAYING":   0,
		"STREAMING": 1,
		"LISTENING": 2,
		"WATCHING":  3,
		"CUSTOM":    4,
		"COMPETING": 5,
	},
	"StatusType": {
		"ONLINE":    0,
		"IDLE":      1,
		"DND":       2,
		"INVISIBLE": 3,
		"OFFLINE":   4,
	},
	"ChannelType": {
		"GUILD_TEXT":     0,
		"DM":             1,
		"GUILD_VOICE":    2,
		"GROUP_DM":       3,
		"GUILD_CATEGORY": 4,
	},
}

// LookupExternalEnum returns the tabulated value for a member of an
// externally-defined enumeration, if present.
func LookupExternalEnum(enumName, member string) (value.Value, bool) {
	members, ok := externalEnums[enumName]
	if !ok {
		return nil, false
	}
	v, ok := members[member]
	if !ok {
		return nil, false
	}
	return &value.Int{Value: v}, true
}
