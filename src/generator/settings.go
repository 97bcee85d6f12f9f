package generator

import (
	"github.com/please-build/xcodegen/src/core"
)

// SDK identifiers we know how to reason about.
const (
	SDKiPhoneOS = "iphoneos"
	SDKWatchOS  = "watchos"
	SDKMacOS    = "macosx"
)

// The feature flags stamped into every generated project.
var featureFlags = map[string]string{
	"ALWAYS_SEARCH_USER_PATHS": "NO",
	"CLANG_ENABLE_OBJC_ARC":    "YES",
	"ENABLE_BITCODE":           "NO",
	"ONLY_ACTIVE_ARCH":         "YES",
	"CODE_SIGNING_REQUIRED":    "NO",
}

// SDKRoot selects the project-wide SDK root from the distinct SDK
// requirements across all generated targets. It is a pure function of that
// set: one distinct SDK wins outright; none at all falls back to the iOS SDK;
// the host-app/watch-app pairing maps to the iOS SDK; any other mixture gets
// no SDK root at all and downstream tooling shows a generic device list.
func SDKRoot(sdks []string) string {
	distinct := map[string]struct{}{}
	for _, sdk := range sdks {
		if sdk != "" {
			distinct[sdk] = struct{}{}
		}
	}
	switch len(distinct) {
	case 0:
		return SDKiPhoneOS
	case 1:
		for sdk := range distinct {
			return sdk
		}
	case 2:
		_, ios := distinct[SDKiPhoneOS]
		_, watch := distinct[SDKWatchOS]
		if ios && watch {
			return SDKiPhoneOS
		}
	}
	return ""
}

// AggregateSettings computes the flat project-wide settings map consumed by
// the serializer. Entries are iterated in materialization order; where
// several declare a language version the last one seen wins.
func AggregateSettings(entries []*core.RuleEntry, config *core.Configuration, extra map[string]string) map[string]string {
	settings := map[string]string{}
	for k, v := range featureFlags {
		settings[k] = v
	}
	sdks := make([]string, 0, len(entries))
	for _, entry := range entries {
		sdks = append(sdks, entry.SDK)
		if version := entry.Attribute(core.AttrLanguageVersion); version != "" {
			settings["SWIFT_VERSION"] = version
		}
	}
	if sdkRoot := SDKRoot(sdks); sdkRoot != "" {
		settings["SDKROOT"] = sdkRoot
	}
	for k, v := range extra {
		settings[k] = v
	}
	settings["XCODEGEN_PROJECT"] = config.Project.Name
	return settings
}
