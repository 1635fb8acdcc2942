// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mount

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"syscall"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/bureau-foundation/scriptvault/lib/bytecode"
	"github.com/bureau-foundation/scriptvault/lib/resolver"
	"github.com/bureau-foundation/scriptvault/lib/storage"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	// Created if it does not exist.
	Mountpoint string

	// Resolver serves file contents.
	Resolver *resolver.Resolver

	// Lister enumerates directories. It should see the same tree as
	// the resolver's storage.
	Lister storage.Lister

	// AllowOther permits other users to access the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostics. If nil, the resolver's logger is
	// used.
	Logger *slog.Logger
}

// Mount mounts the filesystem. The caller must call Unmount on the
// returned server when done.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if options.Lister == nil {
		return nil, fmt.Errorf("lister is required")
	}
	if options.Logger == nil {
		options.Logger = options.Resolver.Logger()
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &dirNode{options: &options}

	entryTimeout := time.Second
	attrTimeout := time.Second
	negativeTimeout := 100 * time.Millisecond

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &entryTimeout,
		AttrTimeout:     &attrTimeout,
		NegativeTimeout: &negativeTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "scriptvault",
			Name:       "scriptvault",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("script filesystem mounted", "mountpoint", options.Mountpoint)
	return server, nil
}

// LogicalEntries rewrites a storage listing into the names the mount
// shows: artifacts take their source name and duplicates collapse.
// A directory shadows a file of the same name.
func LogicalEntries(entries []storage.Entry) []storage.Entry {
	byName := make(map[string]storage.Entry, len(entries))
	for _, entry := range entries {
		if !entry.Dir {
			entry.Name = bytecode.SourcePath(entry.Name)
		}
		if existing, ok := byName[entry.Name]; ok && existing.Dir {
			continue
		}
		byName[entry.Name] = entry
	}

	logical := make([]storage.Entry, 0, len(byName))
	for _, entry := range byName {
		logical = append(logical, entry)
	}
	sort.Slice(logical, func(i, j int) bool { return logical[i].Name < logical[j].Name })
	return logical
}

// dirNode is one directory of the logical tree. The root has an empty
// path.
type dirNode struct {
	gofuse.Inode
	options *Options
	path    string
}

var _ gofuse.InodeEmbedder = (*dirNode)(nil)
var _ gofuse.NodeLookuper = (*dirNode)(nil)
var _ gofuse.NodeReaddirer = (*dirNode)(nil)

func (d *dirNode) child(name string) string {
	if d.path == "" {
		return name
	}
	return path.Join(d.path, name)
}

func (d *dirNode) entries() ([]storage.Entry, syscall.Errno) {
	listing, err := d.options.Lister.List(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, syscall.ENOENT
		}
		d.options.Logger.Error("listing directory failed", "path", d.path, "error", err)
		return nil, syscall.EIO
	}
	return LogicalEntries(listing), 0
}

func (d *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	entries, errno := d.entries()
	if errno != 0 {
		return nil, errno
	}

	index := sort.Search(len(entries), func(i int) bool { return entries[i].Name >= name })
	if index == len(entries) || entries[index].Name != name {
		return nil, syscall.ENOENT
	}

	childPath := d.child(name)
	if entries[index].Dir {
		child := d.NewInode(ctx, &dirNode{options: d.options, path: childPath},
			gofuse.StableAttr{Mode: syscall.S_IFDIR})
		out.Mode = syscall.S_IFDIR | 0o555
		return child, 0
	}

	node := &fileNode{options: d.options, path: childPath}
	size, errno := node.size()
	if errno != 0 {
		return nil, errno
	}
	child := d.NewInode(ctx, node, gofuse.StableAttr{Mode: syscall.S_IFREG})
	out.Mode = syscall.S_IFREG | 0o444
	out.Size = size
	return child, 0
}

func (d *dirNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	entries, errno := d.entries()
	if errno != 0 {
		return nil, errno
	}

	dirEntries := make([]fuse.DirEntry, 0, len(entries))
	for _, entry := range entries {
		mode := uint32(syscall.S_IFREG)
		if entry.Dir {
			mode = syscall.S_IFDIR
		}
		dirEntries = append(dirEntries, fuse.DirEntry{Name: entry.Name, Mode: mode})
	}
	return gofuse.NewListDirStream(dirEntries), 0
}

// fileNode is one logical source file. Contents are resolved on every
// open, so a repacked artifact is picked up without remounting.
type fileNode struct {
	gofuse.Inode
	options *Options
	path    string
}

var _ gofuse.InodeEmbedder = (*fileNode)(nil)
var _ gofuse.NodeGetattrer = (*fileNode)(nil)
var _ gofuse.NodeOpener = (*fileNode)(nil)
var _ gofuse.NodeReader = (*fileNode)(nil)

// errno maps a resolution failure to a FUSE status, logging anything
// that is not a plain missing file.
func (f *fileNode) errno(err error) syscall.Errno {
	if errors.Is(err, fs.ErrNotExist) {
		return syscall.ENOENT
	}
	f.options.Logger.Error("resolving script failed", "path", f.path, "error", err)
	return syscall.EIO
}

func (f *fileNode) size() (uint64, syscall.Errno) {
	source, err := f.options.Resolver.Stat(f.path)
	if err != nil {
		return 0, f.errno(err)
	}
	return uint64(source.Size), 0
}

func (f *fileNode) Getattr(ctx context.Context, handle gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	if opened, ok := handle.(*fileHandle); ok {
		out.Size = uint64(len(opened.data))
	} else {
		size, errno := f.size()
		if errno != 0 {
			return errno
		}
		out.Size = size
	}
	out.Mode = syscall.S_IFREG | 0o444
	out.Blocks = (out.Size + 511) / 512
	return 0
}

func (f *fileNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	data, err := f.options.Resolver.Bytes(f.path)
	if err != nil {
		return nil, 0, f.errno(err)
	}
	return &fileHandle{data: data}, fuse.FOPEN_DIRECT_IO, 0
}

func (f *fileNode) Read(ctx context.Context, handle gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	opened, ok := handle.(*fileHandle)
	if !ok {
		return nil, syscall.EBADF
	}
	return fuse.ReadResultData(opened.slice(len(dest), off)), 0
}

// fileHandle holds the content resolved at open time.
type fileHandle struct {
	data []byte
}

func (h *fileHandle) slice(length int, off int64) []byte {
	if off < 0 || off >= int64(len(h.data)) {
		return nil
	}
	end := off + int64(length)
	if end > int64(len(h.data)) {
		end = int64(len(h.data))
	}
	return h.data[off:end]
}
