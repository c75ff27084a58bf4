// Package extract provides hardened archive extraction for ZIP, TAR,
// gzip-compressed TAR, and 7z archives.
//
// It guards every entry against path traversal, symlink following,
// decompression bombs, dangerous permission bits, dangerous entry
// types, encrypted content, and reserved device filenames before a
// single byte is written, in a fixed policy order that short circuits
// on the first violation.
package extract
