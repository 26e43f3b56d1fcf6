package common

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

func RandHex(n int) string { //生成长度为2n的十六进制字符串
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func GetContent(path string) (string, error) { //读取文件内容, 文件不存在时返回空串
	if yes, err := PathExists(path); err != nil {
		return "", err
	} else if !yes {
		return "", nil
	}
	bt, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(bt), nil
}

func PathExists(path string) (bool, error) { //判断文件是否存在
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// SafeJoin 把相对路径拼到 root 下, .. 无法跳出 root
func SafeJoin(root, location string) (string, bool) {
	p := filepath.Join(root, filepath.Clean("/"+location))
	rootAbs := filepath.Clean(root)
	if p != rootAbs && !strings.HasPrefix(p, rootAbs+string(os.PathSeparator)) {
		return "", false
	}
	return p, true
}
