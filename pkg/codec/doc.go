// Package codec 定义线上序列化能力
//
// Codec[V] 是推送端与拉取端唯一依赖的序列化契约：
//
//	Encode(v, buf) []byte          追加编码到 buf 末尾
//	Decode(buf) (v, rest, error)   解码 buf 前缀，返回未消费的剩余字节
//
// 物理传输只看到不透明的字节区间，从不解析负载；负载的含义完全由
// 通道两端持有的 Codec 决定。
//
// # 内置编解码器
//
//   - Uint64 / Int64 / Int / Bool   定长小端整数
//   - String / Bytes                uvarint 长度前缀（go-varint），Bytes 解码时不拷贝
//   - Slice(elem)                   uvarint 元素个数 + 逐个元素
//   - PairOf(a, b)                  二元组
//   - CBOR[V]()                     任意可 CBOR 序列化的类型（规范编码）
//   - Proto(newFn)                  protobuf 消息，长度前缀（protowire）
//
// # 帧负载
//
// Envelope 组合时间戳与记录序列的编解码器，帧负载为
// encode(time) 紧接 encode(records)，中间无填充。
//
// # 错误
//
// 截断或畸形输入返回包装了 ErrTruncated / ErrMalformed 的错误；
// 是否视为致命由调用方决定。
package codec
