package app

import (
	"errors"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"LiveCTF/common"

	"github.com/gin-gonic/gin"
)

// Uploader 把题目附件存在 root 下, location 是相对 root 的路径
type Uploader struct {
	root string
}

func NewUploader(root string) (*Uploader, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, err
	}
	return &Uploader{root: root}, nil
}

//同名文件放在不同的随机目录下
func (u *Uploader) Save(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) {
		return "", common.ErrInvalidInput("invalid file name")
	}
	location := path.Join(common.RandHex(16), name)
	dst, ok := common.SafeJoin(u.root, location)
	if !ok {
		return "", common.ErrInvalidInput("invalid file name")
	}
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return location, nil
}

// RemoveFile 删除文件和它所在的随机目录
func (u *Uploader) RemoveFile(location string) error {
	p, ok := common.SafeJoin(u.root, location)
	if !ok {
		return errors.New("file location escapes upload folder: " + location)
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	if dir := filepath.Dir(p); dir != filepath.Clean(u.root) {
		os.Remove(dir) //目录非空时会失败, 忽略
	}
	return nil
}
