package domain

// ConfigFileName is the name of the file that declares checks.
const ConfigFileName = "stale.yaml"
