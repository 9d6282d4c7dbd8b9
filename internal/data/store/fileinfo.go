package store

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"syscall"
)

// fileInfo identifies one version of a value file on disk.
type fileInfo struct {
	ModTime int64  // nanoseconds
	Size    int64  // bytes
	Inode   uint64 // changes when a writer renames a new file into place
}

func statFile(path string) (fileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return fileInfo{}, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return fileInfo{}, fmt.Errorf("failed to get file system information: %s", path)
	}

	return fileInfo{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}, nil
}

// fingerprintSize is how much of the tail of a value file is hashed.
const fingerprintSize = 2048

// fingerprint is the CRC32 of the last fingerprintSize bytes of data.
func fingerprint(data []byte) string {
	if len(data) > fingerprintSize {
		data = data[len(data)-fingerprintSize:]
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

// fileFingerprint hashes the tail of the file at path.
func fileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := int64(fingerprintSize)
	if stat.Size() < readSize {
		readSize = stat.Size()
	}
	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}
	return fingerprint(data), nil
}
