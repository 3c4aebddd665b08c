package util

import (
	"io"
	"net/http"
)

// GetSafeContentType 通过嗅探文件头判断类型，不信任客户端声明的 Content-Type。
// 读取后把游标拨回起点，调用方可以继续完整读取
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buf[:n]), nil
}
