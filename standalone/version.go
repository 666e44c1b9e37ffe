package standalone

// Version is the harness version reported to the core and the window UI.
const Version = "1.0.0"
