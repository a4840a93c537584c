// Package interfaces 定义 dfcomm 的公共接口
//
// 一个接口文件对应一类能力：
//   - communicator.go - Observer 推送端、Pullable 拉取端、Communicator、LocalCommunicator
//   - metrics.go      - DeliveryReporter 投递观测钩子
//
// 物理传输只处理成帧后的不透明字节，序列化能力见 pkg/codec。
//
// # 依赖方向
//
//	root(dfcomm) → internal/core/{binary,network,process,metrics} → pkg/interfaces → pkg/{message,codec,types}
//
// 禁止反向依赖。
package interfaces
