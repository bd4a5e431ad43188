package components

import "github.com/decker502/chunksim/pkg/chunk"

// ChunkableComponent 标识需要登记到空间网格的实体
//
// Coords 是该实体最后一次已知所在的格子（放置记录），
// 由 ChunkSystem 每帧对比并更新；网格本身不会修改它。
type ChunkableComponent struct {
	Coords chunk.Coords
}
