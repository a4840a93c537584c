package metrics

import (
	"github.com/dep2p/go-dfcomm/pkg/types"
)

// testHeader 创建测试用的帧头
func testHeader(target, length uint64) types.MessageHeader {
	return types.MessageHeader{Target: target, Length: length}
}

// testChannel 创建测试用的通道标识
func testChannel(worker int) types.ChannelIdentity {
	return types.ChannelIdentity{Worker: worker}
}
