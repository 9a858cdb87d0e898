package internal

// Version is the application version, shown by --version and the about tab.
const Version = "1.0.0"
