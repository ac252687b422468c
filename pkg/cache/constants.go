package cache

// DefaultEndpoints lists the binary caches queried by default, in priority order.
// Each endpoint ends with a slash; narinfo and archive paths are appended verbatim.
var DefaultEndpoints = []string{
	"https://cache.nixos.org/",
	"https://sisyphe.cachix.org/",
	"https://bincache.grunblatt.org/",
}

// NarInfoSuffix is appended to the store hash to form the metadata file name.
const NarInfoSuffix = ".narinfo"

// archivePathLine is the zero-based line of a narinfo that carries the archive path.
const archivePathLine = 1
