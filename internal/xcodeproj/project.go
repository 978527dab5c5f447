package xcodeproj

import "sort"

// objectIDs are the identifiers of every object a generated project declares.
type objectIDs struct {
	project           string
	mainGroup         string
	sourcesGroup      string
	productsGroup     string
	frameworksGroup   string
	target            string
	productRef        string
	appFile           string
	contentViewFile   string
	assetsFile        string
	infoPlistFile     string
	appBuild          string
	contentViewBuild  string
	assetsBuild       string
	sourcesPhase      string
	resourcesPhase    string
	frameworksPhase   string
	projectConfigList string
	projectDebug      string
	projectRelease    string
	targetConfigList  string
	targetDebug       string
	targetRelease     string
}

func drawIDs(src IDSource) objectIDs {
	return objectIDs{
		project:           src.NewID(),
		mainGroup:         src.NewID(),
		sourcesGroup:      src.NewID(),
		productsGroup:     src.NewID(),
		frameworksGroup:   src.NewID(),
		target:            src.NewID(),
		productRef:        src.NewID(),
		appFile:           src.NewID(),
		contentViewFile:   src.NewID(),
		assetsFile:        src.NewID(),
		infoPlistFile:     src.NewID(),
		appBuild:          src.NewID(),
		contentViewBuild:  src.NewID(),
		assetsBuild:       src.NewID(),
		sourcesPhase:      src.NewID(),
		resourcesPhase:    src.NewID(),
		frameworksPhase:   src.NewID(),
		projectConfigList: src.NewID(),
		projectDebug:      src.NewID(),
		projectRelease:    src.NewID(),
		targetConfigList:  src.NewID(),
		targetDebug:       src.NewID(),
		targetRelease:     src.NewID(),
	}
}

// Deployment and tooling versions written into every generated project.
const (
	MinimumSystemVersion = "10.15"
	SwiftVersion         = "5.0"
	LastUpgradeCheck     = "1250"
	CreatedOnTools       = "12.5"
)

// buildGraph declares the single-target SwiftUI application.
func buildGraph(name, bundleID string, ids objectIDs) *Graph {
	g := NewGraph()
	appSwift := name + "App.swift"
	product := name + ".app"

	g.Add(&Object{ID: ids.appBuild, ISA: "PBXBuildFile", Comment: appSwift + " in Sources",
		Fields: Dict{{Key: "fileRef", Value: Ref(ids.appFile)}}})
	g.Add(&Object{ID: ids.contentViewBuild, ISA: "PBXBuildFile", Comment: "ContentView.swift in Sources",
		Fields: Dict{{Key: "fileRef", Value: Ref(ids.contentViewFile)}}})
	g.Add(&Object{ID: ids.assetsBuild, ISA: "PBXBuildFile", Comment: "Assets.xcassets in Resources",
		Fields: Dict{{Key: "fileRef", Value: Ref(ids.assetsFile)}}})

	g.Add(&Object{ID: ids.productRef, ISA: "PBXFileReference", Comment: product, Fields: Dict{
		{Key: "explicitFileType", Value: "wrapper.application"},
		{Key: "includeInIndex", Value: "0"},
		{Key: "path", Value: product},
		{Key: "sourceTree", Value: "BUILT_PRODUCTS_DIR"},
	}})
	g.Add(fileReference(ids.appFile, appSwift, "sourcecode.swift"))
	g.Add(fileReference(ids.contentViewFile, "ContentView.swift", "sourcecode.swift"))
	g.Add(fileReference(ids.assetsFile, "Assets.xcassets", "folder.assetcatalog"))
	g.Add(fileReference(ids.infoPlistFile, "Info.plist", "text.plist.xml"))

	g.Add(buildPhase(ids.frameworksPhase, "PBXFrameworksBuildPhase", "Frameworks"))

	g.Add(&Object{ID: ids.mainGroup, ISA: "PBXGroup", Fields: Dict{
		{Key: "children", Value: List{Ref(ids.sourcesGroup), Ref(ids.productsGroup), Ref(ids.frameworksGroup)}},
		{Key: "sourceTree", Value: "<group>"},
	}})
	g.Add(&Object{ID: ids.sourcesGroup, ISA: "PBXGroup", Comment: name, Fields: Dict{
		{Key: "children", Value: List{Ref(ids.appFile), Ref(ids.contentViewFile), Ref(ids.assetsFile), Ref(ids.infoPlistFile)}},
		{Key: "path", Value: name},
		{Key: "sourceTree", Value: "<group>"},
	}})
	g.Add(&Object{ID: ids.productsGroup, ISA: "PBXGroup", Comment: "Products", Fields: Dict{
		{Key: "children", Value: List{Ref(ids.productRef)}},
		{Key: "name", Value: "Products"},
		{Key: "sourceTree", Value: "<group>"},
	}})
	g.Add(&Object{ID: ids.frameworksGroup, ISA: "PBXGroup", Comment: "Frameworks", Fields: Dict{
		{Key: "children", Value: List{}},
		{Key: "name", Value: "Frameworks"},
		{Key: "sourceTree", Value: "<group>"},
	}})

	g.Add(&Object{ID: ids.target, ISA: "PBXNativeTarget", Comment: name, Fields: Dict{
		{Key: "buildConfigurationList", Value: Ref(ids.targetConfigList)},
		{Key: "buildPhases", Value: List{Ref(ids.sourcesPhase), Ref(ids.frameworksPhase), Ref(ids.resourcesPhase)}},
		{Key: "buildRules", Value: List{}},
		{Key: "dependencies", Value: List{}},
		{Key: "name", Value: name},
		{Key: "productName", Value: name},
		{Key: "productReference", Value: Ref(ids.productRef)},
		{Key: "productType", Value: "com.apple.product-type.application"},
	}})

	g.Add(&Object{ID: ids.project, ISA: "PBXProject", Comment: "Project object", Fields: Dict{
		{Key: "attributes", Value: Dict{
			{Key: "LastUpgradeCheck", Value: LastUpgradeCheck},
			{Key: "ORGANIZATIONNAME", Value: ""},
			{Key: "TargetAttributes", Value: Dict{
				{Key: ids.target, KeyIsRef: true, Value: Dict{{Key: "CreatedOnToolsVersion", Value: CreatedOnTools}}},
			}},
		}},
		{Key: "buildConfigurationList", Value: Ref(ids.projectConfigList)},
		{Key: "compatibilityVersion", Value: "Xcode 9.3"},
		{Key: "developmentRegion", Value: "en"},
		{Key: "hasScannedForEncodings", Value: "0"},
		{Key: "knownRegions", Value: List{"en", "Base"}},
		{Key: "mainGroup", Value: Ref(ids.mainGroup)},
		{Key: "productRefGroup", Value: Ref(ids.productsGroup)},
		{Key: "projectDirPath", Value: ""},
		{Key: "projectRoot", Value: ""},
		{Key: "targets", Value: List{Ref(ids.target)}},
	}})

	g.Add(buildPhase(ids.resourcesPhase, "PBXResourcesBuildPhase", "Resources", Ref(ids.assetsBuild)))
	g.Add(buildPhase(ids.sourcesPhase, "PBXSourcesBuildPhase", "Sources", Ref(ids.contentViewBuild), Ref(ids.appBuild)))

	g.Add(configuration(ids.projectDebug, "Debug", merge(projectSettings, projectDebugSettings)))
	g.Add(configuration(ids.projectRelease, "Release", merge(projectSettings, projectReleaseSettings)))
	target := targetSettings(name, bundleID)
	g.Add(configuration(ids.targetDebug, "Debug", target))
	g.Add(configuration(ids.targetRelease, "Release", target))

	g.Add(configurationList(ids.projectConfigList, `PBXProject "`+name+`"`, ids.projectDebug, ids.projectRelease))
	g.Add(configurationList(ids.targetConfigList, `PBXNativeTarget "`+name+`"`, ids.targetDebug, ids.targetRelease))

	g.SetRoot(ids.project)
	return g
}

func fileReference(id, path, fileType string) *Object {
	return &Object{ID: id, ISA: "PBXFileReference", Comment: path, Fields: Dict{
		{Key: "lastKnownFileType", Value: fileType},
		{Key: "path", Value: path},
		{Key: "sourceTree", Value: "<group>"},
	}}
}

func buildPhase(id, isa, comment string, files ...any) *Object {
	return &Object{ID: id, ISA: isa, Comment: comment, Fields: Dict{
		{Key: "buildActionMask", Value: "2147483647"},
		{Key: "files", Value: List(files)},
		{Key: "runOnlyForDeploymentPostprocessing", Value: "0"},
	}}
}

func configuration(id, name string, settings map[string]any) *Object {
	return &Object{ID: id, ISA: "XCBuildConfiguration", Comment: name, Fields: Dict{
		{Key: "buildSettings", Value: sortedDict(settings)},
		{Key: "name", Value: name},
	}}
}

func configurationList(id, owner, debug, release string) *Object {
	return &Object{ID: id, ISA: "XCConfigurationList", Comment: "Build configuration list for " + owner, Fields: Dict{
		{Key: "buildConfigurations", Value: List{Ref(debug), Ref(release)}},
		{Key: "defaultConfigurationIsVisible", Value: "0"},
		{Key: "defaultConfigurationName", Value: "Release"},
	}}
}

// sortedDict orders build settings by key, as Xcode does.
func sortedDict(m map[string]any) Dict {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := make(Dict, 0, len(keys))
	for _, k := range keys {
		d = append(d, Field{Key: k, Value: m[k]})
	}
	return d
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var projectSettings = map[string]any{
	"ALWAYS_SEARCH_USER_PATHS":                      "NO",
	"CLANG_ANALYZER_NONNULL":                        "YES",
	"CLANG_ANALYZER_NUMBER_OBJECT_CONVERSION":       "YES_AGGRESSIVE",
	"CLANG_CXX_LANGUAGE_STANDARD":                   "gnu++14",
	"CLANG_CXX_LIBRARY":                             "libc++",
	"CLANG_ENABLE_MODULES":                          "YES",
	"CLANG_ENABLE_OBJC_ARC":                         "YES",
	"CLANG_ENABLE_OBJC_WEAK":                        "YES",
	"CLANG_WARN_BLOCK_CAPTURE_AUTORELEASING":        "YES",
	"CLANG_WARN_BOOL_CONVERSION":                    "YES",
	"CLANG_WARN_COMMA":                              "YES",
	"CLANG_WARN_CONSTANT_CONVERSION":                "YES",
	"CLANG_WARN_DEPRECATED_OBJC_IMPLEMENTATIONS":    "YES",
	"CLANG_WARN_DIRECT_OBJC_ISA_USAGE":              "YES_ERROR",
	"CLANG_WARN_DOCUMENTATION_COMMENTS":             "YES",
	"CLANG_WARN_EMPTY_BODY":                         "YES",
	"CLANG_WARN_ENUM_CONVERSION":                    "YES",
	"CLANG_WARN_INFINITE_RECURSION":                 "YES",
	"CLANG_WARN_INT_CONVERSION":                     "YES",
	"CLANG_WARN_NON_LITERAL_NULL_CONVERSION":        "YES",
	"CLANG_WARN_OBJC_IMPLICIT_RETAIN_SELF":          "YES",
	"CLANG_WARN_OBJC_LITERAL_CONVERSION":            "YES",
	"CLANG_WARN_OBJC_ROOT_CLASS":                    "YES_ERROR",
	"CLANG_WARN_QUOTED_INCLUDE_IN_FRAMEWORK_HEADER": "YES",
	"CLANG_WARN_RANGE_LOOP_ANALYSIS":                "YES",
	"CLANG_WARN_STRICT_PROTOTYPES":                  "YES",
	"CLANG_WARN_SUSPICIOUS_MOVE":                    "YES",
	"CLANG_WARN_UNGUARDED_AVAILABILITY":             "YES_AGGRESSIVE",
	"CLANG_WARN_UNREACHABLE_CODE":                   "YES",
	"CLANG_WARN__DUPLICATE_METHOD_MATCH":            "YES",
	"COPY_PHASE_STRIP":                              "NO",
	"ENABLE_STRICT_OBJC_MSGSEND":                    "YES",
	"GCC_C_LANGUAGE_STANDARD":                       "gnu11",
	"GCC_NO_COMMON_BLOCKS":                          "YES",
	"GCC_WARN_64_TO_32_BIT_CONVERSION":              "YES",
	"GCC_WARN_ABOUT_RETURN_TYPE":                    "YES_ERROR",
	"GCC_WARN_UNDECLARED_SELECTOR":                  "YES",
	"GCC_WARN_UNINITIALIZED_AUTOS":                  "YES_AGGRESSIVE",
	"GCC_WARN_UNUSED_FUNCTION":                      "YES",
	"GCC_WARN_UNUSED_VARIABLE":                      "YES",
	"MACOSX_DEPLOYMENT_TARGET":                      MinimumSystemVersion,
	"MTL_FAST_MATH":                                 "YES",
	"SDKROOT":                                       "macosx",
}

var projectDebugSettings = map[string]any{
	"DEBUG_INFORMATION_FORMAT":            "dwarf",
	"ENABLE_TESTABILITY":                  "YES",
	"GCC_DYNAMIC_NO_PIC":                  "NO",
	"GCC_OPTIMIZATION_LEVEL":              "0",
	"GCC_PREPROCESSOR_DEFINITIONS":        List{"DEBUG=1", "$(inherited)"},
	"MTL_ENABLE_DEBUG_INFO":               "INCLUDE_SOURCE",
	"ONLY_ACTIVE_ARCH":                    "YES",
	"SWIFT_ACTIVE_COMPILATION_CONDITIONS": "DEBUG",
	"SWIFT_OPTIMIZATION_LEVEL":            "-Onone",
}

var projectReleaseSettings = map[string]any{
	"DEBUG_INFORMATION_FORMAT": "dwarf-with-dsym",
	"ENABLE_NS_ASSERTIONS":     "NO",
	"MTL_ENABLE_DEBUG_INFO":    "NO",
	"SWIFT_COMPILATION_MODE":   "wholemodule",
	"SWIFT_OPTIMIZATION_LEVEL": "-O",
}

func targetSettings(name, bundleID string) map[string]any {
	return map[string]any{
		"ASSETCATALOG_COMPILER_APPICON_NAME":             "AppIcon",
		"ASSETCATALOG_COMPILER_GLOBAL_ACCENT_COLOR_NAME": "AccentColor",
		"CODE_SIGN_STYLE":                                "Automatic",
		"COMBINE_HIDPI_IMAGES":                           "YES",
		"ENABLE_PREVIEWS":                                "YES",
		"INFOPLIST_FILE":                                 name + "/Info.plist",
		"LD_RUNPATH_SEARCH_PATHS":                        "$(inherited) @executable_path/../Frameworks",
		"PRODUCT_BUNDLE_IDENTIFIER":                      bundleID,
		"PRODUCT_NAME":                                   "$(TARGET_NAME)",
		"SWIFT_VERSION":                                  SwiftVersion,
	}
}
