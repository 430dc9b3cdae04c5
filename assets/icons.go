// Package assets 提供渲染所需的只读资源：联系方式图标表与字体集合。
package assets

import (
	"errors"
	"fmt"
	"sort"
)

// ErrResourceMissing 表示渲染所需的资源（例如图标）不存在。
var ErrResourceMissing = errors.New("resource missing")

// Icon 是图标表的键。
type Icon string

const (
	IconEmail    Icon = "email"
	IconPhone    Icon = "phone"
	IconLinkedIn Icon = "linkedin"
	IconGitHub   Icon = "github"
)

// ContactIcons 按联系方式行的固定顺序列出全部图标键。
var ContactIcons = []Icon{IconEmail, IconPhone, IconLinkedIn, IconGitHub}

// IconTable 将图标键映射到编码后的栅格图片（PNG/JPEG/GIF）。加载后只读。
type IconTable map[Icon][]byte

// Lookup 返回图标数据；不存在或为空时返回 ErrResourceMissing。
func (t IconTable) Lookup(icon Icon) ([]byte, error) {
	data, ok := t[icon]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("%w: icon %q", ErrResourceMissing, icon)
	}
	return data, nil
}

// Require 校验所有给定的图标都存在，第一个缺失的图标立即报错。
func (t IconTable) Require(icons ...Icon) error {
	for _, icon := range icons {
		if _, err := t.Lookup(icon); err != nil {
			return err
		}
	}
	return nil
}

// Keys 返回排序后的图标键。
func (t IconTable) Keys() []Icon {
	keys := make([]Icon, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
