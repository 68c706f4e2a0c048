package config

// AppVersion is the version of the application, stamped at build time.
var AppVersion = "0.9.0"

// AppName is the display name of the application.
const AppName = "Carnet"

// ServiceName is the machine name of the application, used for app IDs.
const ServiceName = "carnet"

// SettingsDirName is the per-user dot directory holding the settings file,
// the optional face detection model and the release-build logs. The name
// predates the Go rewrite; keeping it means existing settings carry over.
const SettingsDirName = ".photos_app"

// SettingsFileName is the settings file inside SettingsDirName.
const SettingsFileName = "config.json"

// CacheDirName is the cache directory created under the target folder.
const CacheDirName = "__cache"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = SettingsDirName + "/logs"

// LogExt is the extension for the log files.
var LogExt = ".log"

// DefaultWindowGeometry is the window size used when none is saved yet.
const DefaultWindowGeometry = "900x700"
