// Package env holds the IO functions of the platform the document is built
// on: the local file system on servers and the browser under wasm.
package env

var (
	// Logger receives progress messages, eg: Logger("font loaded", path)
	Logger = SetupDefaultLogger()
	// FileWriter writes PDF data, eg: FileWriter("output.pdf", data)
	FileWriter = SetupDefaultFileWriter()
	// FileReader reads fonts, images and document definitions.
	FileReader = SetupDefaultFileReader()
	// FileStat reports the size and modification time of a file. Font
	// metrics are cached by it.
	FileStat = SetupDefaultFileStat()
)
